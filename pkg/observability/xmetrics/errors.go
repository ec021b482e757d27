package xmetrics

import "errors"

// NewOTelObserver / RegisterPoolGauges 返回的错误。
var (
	// ErrCreateCounter 表示创建 OTel Counter 失败。
	ErrCreateCounter = errors.New("xmetrics: create counter failed")
	// ErrCreateHistogram 表示创建 OTel Histogram 失败。
	ErrCreateHistogram = errors.New("xmetrics: create histogram failed")
	// ErrCreateGauge 表示创建 OTel ObservableGauge 失败。
	ErrCreateGauge = errors.New("xmetrics: create gauge failed")
	// ErrNilSnapshot 表示 RegisterPoolGauges 的快照函数为 nil。
	ErrNilSnapshot = errors.New("xmetrics: nil snapshot func")
	// ErrNilOption 表示传入了 nil 的 Option 函数。
	ErrNilOption = errors.New("xmetrics: nil option")
)
