// Package xrun 管理一组并发运行的服务的启动、信号处理和协调关闭。
//
// # Group
//
// [Group] 基于 errgroup + context.WithCancelCause：任一服务返回错误、
// 调用 [Group.Cancel] 或父 context 取消时，所有服务收到取消信号。
// [Group.Wait] 过滤普通的 context.Canceled，保留显式的取消原因（如 [*SignalError]）。
//
// # Run
//
// [Run] / [RunWithOptions] 在 Group 之上自动监听 [DefaultSignals]，
// 收到信号后以 [*SignalError] 取消所有服务：
//
//	pool, _ := xpool.New(8)
//	err := xrun.Run(ctx,
//	    xrun.Shutdown(pool.Shutdown, 10*time.Second),
//	    func(ctx context.Context) error { return produce(ctx, pool) },
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//	    // Ctrl-C
//	}
//
// # Shutdown
//
// [Shutdown] 把任意 Shutdown(ctx) error 形式的资源适配为服务：
// 阻塞到 Group 取消，再以独立的超时 context 调用关闭函数。
package xrun
