package xpool

import (
	"errors"
	"fmt"
)

var (
	// ErrNilPool 表示 pool 参数为 nil。
	ErrNilPool = errors.New("xpool: nil pool")

	// ErrNilTask 表示任务函数为 nil。
	ErrNilTask = errors.New("xpool: task cannot be nil")

	// ErrPoolStopped 表示 pool 已开始关闭，无法提交任务。
	ErrPoolStopped = errors.New("xpool: pool is stopped")

	// ErrInvalidWorkers 表示 worker 数量无效。
	ErrInvalidWorkers = errors.New("xpool: invalid worker count")

	// ErrNilContext 表示 context 参数为 nil。
	ErrNilContext = errors.New("xpool: nil context")

	// ErrNilOption 表示传入了 nil 的 Option。
	ErrNilOption = errors.New("xpool: nil option")

	// ErrTaskPanicked 表示任务执行时发生 panic。
	// Future.Get 返回的 [*PanicError] 满足 errors.Is(err, ErrTaskPanicked)。
	ErrTaskPanicked = errors.New("xpool: task panicked")

	// ErrTaskAlreadyRun 表示任务信封被重复执行。
	ErrTaskAlreadyRun = errors.New("xpool: task already run")

	// ErrPromiseSettled 表示 Promise 已经被兑现或拒绝。
	ErrPromiseSettled = errors.New("xpool: promise already settled")

	// ErrNilError 表示 Promise.Reject 的参数为 nil。
	ErrNilError = errors.New("xpool: reject with nil error")
)

// PanicError 是任务 panic 被恢复后交给 Future 的错误。
type PanicError struct {
	// Value 是 recover() 得到的值。
	Value any
	// Stack 是 panic 发生时的 goroutine 堆栈。
	Stack []byte
}

// Error 实现 error 接口。
func (e *PanicError) Error() string {
	return fmt.Sprintf("xpool: task panicked: %v", e.Value)
}

// Is 支持 errors.Is(err, ErrTaskPanicked)。
func (e *PanicError) Is(target error) bool {
	return target == ErrTaskPanicked
}

// Unwrap 在 panic 值本身是 error 时返回它，使 errors.Is/As 能穿透到原始错误。
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
