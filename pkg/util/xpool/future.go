package xpool

import (
	"context"
	"sync/atomic"
)

// Future 是尚未就绪结果的只读句柄。
// 结果只写入一次，之后可被任意多个 goroutine 反复读取。
type Future[T any] struct {
	id    uint64
	done  chan struct{}
	value T
	err   error
}

// Promise 是 Future 的写端，只能兑现（Resolve）或拒绝（Reject）一次。
type Promise[T any] struct {
	future  *Future[T]
	settled atomic.Bool
}

// NewPromise 创建一对关联的 Promise 和 Future。
func NewPromise[T any]() (*Promise[T], *Future[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return &Promise[T]{future: f}, f
}

// Resolve 以 v 兑现 Promise。重复调用返回 [ErrPromiseSettled]。
func (p *Promise[T]) Resolve(v T) error {
	return p.settle(v, nil)
}

// Reject 以 err 拒绝 Promise。err 为 nil 时返回 [ErrNilError]，
// 重复调用返回 [ErrPromiseSettled]。
func (p *Promise[T]) Reject(err error) error {
	if err == nil {
		return ErrNilError
	}
	var zero T
	return p.settle(zero, err)
}

func (p *Promise[T]) settle(v T, err error) error {
	if !p.settled.CompareAndSwap(false, true) {
		return ErrPromiseSettled
	}
	p.future.value = v
	p.future.err = err
	// close 建立 happens-before，读端在 <-done 之后看到 value/err
	close(p.future.done)
	return nil
}

// Get 阻塞直到结果就绪或 ctx 结束。
//
// 结果就绪时返回任务的值和错误；ctx 先结束时返回零值和 ctx.Err()，
// 任务本身不受影响，之后仍可再次 Get。ctx 为 nil 时返回 [ErrNilContext]。
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if ctx == nil {
		return zero, ErrNilContext
	}
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Done 返回在结果就绪时关闭的 channel。
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone 报告结果是否已就绪。
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// ID 返回任务在所属 pool 内的序号。由 NewPromise 直接创建的 Future 返回 0。
func (f *Future[T]) ID() uint64 {
	return f.id
}
