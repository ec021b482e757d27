package xrun

import (
	"context"
	"time"
)

// Shutdown 将关闭函数适配为服务：阻塞到 ctx 取消，再调用 shutdown。
//
// shutdown 使用不继承取消的独立 context；timeout 为正时附带超时，
// 否则无限等待。xpool.Pool.Shutdown 可直接传入。
func Shutdown(shutdown func(ctx context.Context) error, timeout time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if shutdown == nil {
			return ErrNilFunc
		}
		<-ctx.Done()

		shutdownCtx := context.WithoutCancel(ctx)
		if timeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, timeout)
			defer cancel()
		}
		return shutdown(shutdownCtx)
	}
}
