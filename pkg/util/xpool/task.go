package xpool

import (
	"runtime/debug"
	"sync/atomic"
	"time"
)

// task 是类型擦除后的任务信封：把任意结果类型的任务函数和对应的 Promise
// 绑定成一个可入队的单元。至多执行一次，Promise 恰好被兑现或拒绝一次。
type task struct {
	id       uint64
	enqueued time.Time
	invoked  atomic.Bool

	// call 执行任务函数并兑现 Promise，返回任务自身的错误
	call func() error
	// fail 在 panic 后拒绝 Promise
	fail func(err error)
}

func newTask[T any](id uint64, fn func() (T, error)) (*task, *Future[T]) {
	promise, future := NewPromise[T]()
	future.id = id
	return &task{
		id: id,
		call: func() error {
			v, err := fn()
			if err != nil {
				_ = promise.Reject(err)
				return err
			}
			_ = promise.Resolve(v)
			return nil
		},
		fail: func(err error) {
			_ = promise.Reject(err)
		},
	}, future
}

// execute 在当前 goroutine 上执行任务。
// panic 被恢复为 *PanicError 并写入 Promise，panicked 为 true。
func (t *task) execute() (panicked bool, err error) {
	if !t.invoked.CompareAndSwap(false, true) {
		return false, ErrTaskAlreadyRun
	}
	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Value: r, Stack: debug.Stack()}
			t.fail(perr)
			panicked, err = true, perr
		}
	}()
	return false, t.call()
}
