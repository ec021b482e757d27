package xlog

import (
	"io"
	"log/slog"
)

// Config 日志配置，字段标签供 xconf（koanf）反序列化使用。
type Config struct {
	// Level 日志级别：debug/info/warn/error。
	Level string `koanf:"level" json:"level"`
	// Format 输出格式：text/json。
	Format string `koanf:"format" json:"format"`
	// File 日志文件路径，为空时不写文件。
	File string `koanf:"file" json:"file"`
	// MaxSizeMB 单个日志文件大小上限，0 表示默认值。
	MaxSizeMB int `koanf:"max_size_mb" json:"max_size_mb"`
	// MaxBackups 保留的轮转文件数量，0 表示默认值。
	MaxBackups int `koanf:"max_backups" json:"max_backups"`
	// AddSource 是否输出源码位置。
	AddSource bool `koanf:"add_source" json:"add_source"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
	}
}

// NewFromConfig 根据配置构建 Logger。
// cfg.File 为空时写入 fallback，fallback 为 nil 时写入 stderr。
func NewFromConfig(cfg Config, fallback io.Writer, attrs ...slog.Attr) (*slog.Logger, func() error, error) {
	b := New().
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format).
		SetAddSource(cfg.AddSource).
		SetAttrs(attrs...)
	if cfg.File != "" {
		b.SetRotation(cfg.File, cfg.MaxSizeMB, cfg.MaxBackups)
	} else if fallback != nil {
		b.SetOutput(fallback)
	}
	return b.Build()
}
