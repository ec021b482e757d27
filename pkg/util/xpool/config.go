package xpool

import (
	"runtime"
	"time"
)

// Config 是 pool 的可序列化配置，字段标签供 xconf（koanf）反序列化使用。
//
//	pool:
//	  name: ingest
//	  workers: 8
//	  wait_interval: 10ms
//	  log_panic_value: false
type Config struct {
	// Name pool 名称，为空时自动生成。
	Name string `koanf:"name" json:"name"`
	// Workers worker 数量，0 表示使用 runtime.NumCPU()。
	Workers int `koanf:"workers" json:"workers"`
	// WaitInterval Wait 检查间隔，0 表示使用默认值。
	WaitInterval time.Duration `koanf:"wait_interval" json:"wait_interval"`
	// LogPanicValue 是否在日志中输出 panic 的完整值。
	LogPanicValue bool `koanf:"log_panic_value" json:"log_panic_value"`
}

// DefaultConfig 返回默认配置：worker 数等于 CPU 数。
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.NumCPU(),
		WaitInterval: defaultWaitInterval,
	}
}

// Options 将配置转换为 Option 列表。
func (c Config) Options() []Option {
	opts := []Option{
		WithName(c.Name),
		WithWaitInterval(c.WaitInterval),
	}
	if c.LogPanicValue {
		opts = append(opts, WithLogPanicValue())
	}
	return opts
}

// NewFromConfig 根据配置创建 pool。额外的 opts 在配置之后应用，可覆盖配置项。
func NewFromConfig(cfg Config, opts ...Option) (*Pool, error) {
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return New(workers, append(cfg.Options(), opts...)...)
}
