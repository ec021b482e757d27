package xqueue

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// spinRounds 是 WaitPop 在挂起前自旋重试的轮数。
// 每轮让出一次处理器，覆盖 Push 的“已交换未发布”窗口和短暂的生产间隙。
const spinRounds = 16

// node 是链表中的一个节点。
// next 只会被设置一次：由前驱节点的生产者在 Swap 之后写入。
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Queue 是无界、无锁的多生产者多消费者 FIFO 队列。
//
// 队列始终至少持有一个哨兵节点：head 指向哨兵或已被消费的节点，
// 空队列的判定是 head.next == nil，而不是 head == nil。
//
// Queue 必须通过 [New] 创建，零值不可用。所有方法并发安全。
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	_    cpu.CacheLinePad
	tail atomic.Pointer[node[T]]
	_    cpu.CacheLinePad

	length atomic.Int64
	notify chan struct{}
}

// New 创建空队列。
func New[T any]() *Queue[T] {
	sentinel := &node[T]{}
	q := &Queue[T]{
		notify: make(chan struct{}, 1),
	}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Push 将 v 追加到队尾，从不阻塞。
//
// tail.Swap 是线性化点；随后的 next.Store 使新节点对消费者可见。
// 在两步之间，消费者可能短暂看到空队列。
func (q *Queue[T]) Push(v T) {
	n := &node[T]{value: v}
	// 先计数再发布，保证 Len 不会因消费者先递减而为负
	q.length.Add(1)
	prev := q.tail.Swap(n)
	prev.next.Store(n)
	q.signal()
}

// TryPop 非阻塞地取出队首元素。
// 队列为空（或队首尚未发布）时返回零值和 false。
func (q *Queue[T]) TryPop() (T, bool) {
	for {
		head := q.head.Load()
		next := head.next.Load()
		if next == nil {
			var zero T
			return zero, false
		}
		if q.head.CompareAndSwap(head, next) {
			// next 成为新的哨兵，只有 CAS 胜出者会读取它的 value
			v := next.value
			var zero T
			next.value = zero
			q.length.Add(-1)
			return v, true
		}
	}
}

// WaitPop 取出队首元素，队列为空时阻塞直到有新元素或 ctx 结束。
//
// ctx 结束时返回 ctx.Err()；ctx 为 nil 时返回 [ErrNilContext]。
// 已被 WaitPop 取走的元素不会因 ctx 取消而丢失。
func (q *Queue[T]) WaitPop(ctx context.Context) (T, error) {
	var zero T
	if ctx == nil {
		return zero, ErrNilContext
	}
	for {
		for range spinRounds {
			if v, ok := q.TryPop(); ok {
				q.wakeNext()
				return v, nil
			}
			runtime.Gosched()
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// IsEmpty 报告队列当前是否为空。
// 结果弱一致，返回后可能立即过期，不可用作同步屏障。
func (q *Queue[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Len 返回队列中元素数量的近似值，弱一致，永不为负。
func (q *Queue[T]) Len() int {
	n := q.length.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// signal 非阻塞地唤醒一个等待者。通知槽已满时丢弃，
// 已有的通知足以唤醒一个等待者，后者取走元素后会通过 wakeNext 继续传递。
func (q *Queue[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// wakeNext 在取走元素后仍有剩余时传递唤醒，避免多个等待者共享一个通知槽时丢失唤醒。
func (q *Queue[T]) wakeNext() {
	if !q.IsEmpty() {
		q.signal()
	}
}
