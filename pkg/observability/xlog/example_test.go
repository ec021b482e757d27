package xlog_test

import (
	"log/slog"
	"os"

	"github.com/omeyang/xdispatch/pkg/observability/xlog"
)

func Example() {
	logger, cleanup, err := xlog.New().
		SetOutput(os.Stdout).
		SetFormat("json").
		SetReplaceAttr(func(groups []string, a slog.Attr) slog.Attr {
			// 去掉时间戳，保证输出稳定
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}).
		Build()
	if err != nil {
		panic(err)
	}
	defer cleanup()

	logger.Info("pool started", slog.Int("workers", 4))
	// Output: {"level":"INFO","msg":"pool started","workers":4}
}
