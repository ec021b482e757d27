package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ReplaceAttrFunc 属性替换函数，返回空 Key 的 Attr 时该属性被移除。
type ReplaceAttrFunc func(groups []string, a slog.Attr) slog.Attr

// Builder 日志配置构建器，一次性使用。
type Builder struct {
	output    io.Writer
	closer    io.Closer
	levelVar  *slog.LevelVar
	format    string
	addSource bool
	attrs     []slog.Attr
	replace   ReplaceAttrFunc
	built     bool
	err       error
}

// New 创建构建器，默认 stderr、info 级别、text 格式。
func New() *Builder {
	return &Builder{
		output:   os.Stderr,
		levelVar: new(slog.LevelVar),
		format:   "text",
	}
}

// SetOutput 设置输出目标。
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if b.err != nil {
		return b
	}
	if w == nil {
		b.err = ErrNilOutput
		return b
	}
	b.output = w
	return b
}

// SetLevel 设置日志级别。
func (b *Builder) SetLevel(level Level) *Builder {
	if b.err == nil {
		b.levelVar.Set(slog.Level(level))
	}
	return b
}

// SetLevelString 通过字符串设置日志级别。
func (b *Builder) SetLevelString(s string) *Builder {
	if b.err != nil {
		return b
	}
	level, err := ParseLevel(s)
	if err != nil {
		b.err = err
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值视为 text。
func (b *Builder) SetFormat(format string) *Builder {
	if b.err != nil {
		return b
	}
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		b.err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return b
}

// SetAddSource 是否在日志中添加源码位置。
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetAttrs 追加每条日志都携带的固定属性（如 service、version）。
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// SetReplaceAttr 设置属性替换函数，用于字段重命名、脱敏或过滤。
func (b *Builder) SetReplaceAttr(fn ReplaceAttrFunc) *Builder {
	b.replace = fn
	return b
}

// SetRotation 输出到按大小轮转的文件，替换此前设置的输出目标。
// 文件在 Build 返回的 cleanup 中关闭。
func (b *Builder) SetRotation(filename string, maxSizeMB, maxBackups int) *Builder {
	if b.err != nil {
		return b
	}
	w, err := newRotator(filename, maxSizeMB, maxBackups)
	if err != nil {
		b.err = err
		return b
	}
	b.output = w
	b.closer = w
	return b
}

// LevelVar 返回 Build 出的 Logger 共享的级别变量，可在运行时调整级别。
func (b *Builder) LevelVar() *slog.LevelVar {
	return b.levelVar
}

// Build 构建 Logger。
//
// 返回值：
//   - *slog.Logger: 日志实例
//   - func() error: 清理函数，关闭轮转文件；可重复调用
//   - error: 配置错误
func (b *Builder) Build() (*slog.Logger, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	if b.built {
		return nil, nil, ErrBuilderUsed
	}
	b.built = true

	opts := &slog.HandlerOptions{
		Level:     b.levelVar,
		AddSource: b.addSource,
	}
	if b.replace != nil {
		opts.ReplaceAttr = b.replace
	}
	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}
	if len(b.attrs) > 0 {
		handler = handler.WithAttrs(b.attrs)
	}

	return slog.New(handler), b.cleanup(), nil
}

func (b *Builder) cleanup() func() error {
	var once sync.Once
	closer := b.closer
	return func() error {
		var err error
		once.Do(func() {
			if closer != nil {
				err = closer.Close()
			}
		})
		return err
	}
}
