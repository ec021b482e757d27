package xlog

import (
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultMaxSizeMB 单个日志文件默认大小上限（MB）。
	DefaultMaxSizeMB = 100
	// DefaultMaxBackups 默认保留的轮转文件数量。
	DefaultMaxBackups = 5

	maxSizeMBLimit  = 10240
	maxBackupsLimit = 1024
	maxAgeDays      = 30
)

// newRotator 创建按大小轮转的文件 writer。
// maxSizeMB、maxBackups 为 0 时使用默认值。
func newRotator(filename string, maxSizeMB, maxBackups int) (io.WriteCloser, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if maxSizeMB == 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if maxBackups == 0 {
		maxBackups = DefaultMaxBackups
	}
	if maxSizeMB < 0 || maxSizeMB > maxSizeMBLimit {
		return nil, fmt.Errorf("%w: max_size_mb %d not in [1, %d]", ErrInvalidRotation, maxSizeMB, maxSizeMBLimit)
	}
	if maxBackups < 0 || maxBackups > maxBackupsLimit {
		return nil, fmt.Errorf("%w: max_backups %d not in [1, %d]", ErrInvalidRotation, maxBackups, maxBackupsLimit)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Clean(filename),
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}, nil
}
