package xpool

import (
	"log/slog"
	"time"

	"github.com/omeyang/xdispatch/pkg/observability/xmetrics"
)

// defaultWaitInterval 是 Wait 检查待完成计数的默认间隔。
const defaultWaitInterval = 5 * time.Millisecond

// Option 定义 Pool 可选配置函数类型。
type Option func(*options)

type options struct {
	logger        *slog.Logger
	name          string
	logPanicValue bool
	waitInterval  time.Duration
	observer      xmetrics.Observer
	gauges        bool
	gaugeOpts     []xmetrics.Option
}

func defaultOptions() options {
	return options{
		logger:       slog.Default(),
		waitInterval: defaultWaitInterval,
	}
}

// WithLogger 设置自定义日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，用于日志和指标属性。
// 默认为 "xpool-" 加随机后缀。空字符串被忽略。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogPanicValue 在 panic 恢复日志中输出 panic 的完整值。
// 默认只记录值的类型，避免敏感信息进入日志。
func WithLogPanicValue() Option {
	return func(o *options) {
		o.logPanicValue = true
	}
}

// WithWaitInterval 设置 Wait 检查待完成计数的间隔。
// 默认 5ms。非正值被忽略。
func WithWaitInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.waitInterval = d
		}
	}
}

// WithObserver 设置任务执行的观测器，每个任务产生一个跨度。
// 默认不观测。传入 nil 将被忽略。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithGauges 为 pool 注册 OTel observable gauge（待完成数、队列长度、worker 数）。
// 注册失败时 New 返回错误。pool 终止后自动注销。
func WithGauges(opts ...xmetrics.Option) Option {
	return func(o *options) {
		o.gauges = true
		o.gaugeOpts = opts
	}
}
