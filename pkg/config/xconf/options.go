package xconf

type options struct {
	delim  string
	tag    string
	strict bool
}

// Option 定义配置选项函数类型。
type Option func(*options)

func defaultOptions() options {
	return options{
		delim: ".",
		tag:   "koanf",
	}
}

// WithDelim 设置配置键分隔符，默认 "."（如 "pool.workers"）。空字符串被忽略。
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签名，默认 "koanf"。空字符串被忽略。
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithStrict 开启严格模式：配置中出现目标结构体不认识的键时 Unmarshal 失败。
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}
