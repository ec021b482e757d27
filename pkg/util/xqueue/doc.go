// Package xqueue 提供无界、无锁的 FIFO 队列。
//
// Queue 基于带哨兵节点的单向链表实现，生产者与消费者之间只通过原子指针操作协调，
// 不使用互斥锁。
//
// # 操作语义
//
//   - Push 非阻塞：tail.Swap 是生产者之间的线性化点，随后通过原子写把新节点
//     挂到前驱节点的 next 上。两步之间存在一个有界的窗口：Push 已经“发生”，
//     但消费者尚不可见，此时队列可能短暂表现为空。这是可接受的。
//   - TryPop 非阻塞：队列为空时返回 ok=false，这是正常结果而非错误。
//   - WaitPop 阻塞直到取到元素或 ctx 结束。先短暂自旋（runtime.Gosched）
//     以降低唤醒延迟，随后挂起在通知 channel 上，不会无限占用 CPU。
//   - IsEmpty / Len 是弱一致的：返回之后可能立即过期，不能作为同步屏障。
//
// # 并发安全
//
// 多生产者安全：所有 Push 由同一个原子 Swap 全序化。
// 多消费者安全：head 通过 CAS 推进，失败方重试。节点由 GC 回收，
// 只要还有 goroutine 持有引用就不会被释放，因此不存在 use-after-free，
// 也不存在 ABA（地址在被引用期间不会复用）。
//
// # 顺序
//
// 单生产者时严格 FIFO。多个生产者并发 Push 时，顺序由 Swap 的先后决定，
// 不保证与调用方观察到的“提交顺序”一致。
package xqueue
