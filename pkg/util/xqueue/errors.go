package xqueue

import "errors"

// ErrNilContext 表示 WaitPop 的 context 参数为 nil。
var ErrNilContext = errors.New("xqueue: nil context")
