// Package xmetrics 提供任务调度的可观测性接口（metrics + tracing）。
//
// # 设计理念
//
// xmetrics 仅定义最小化接口：Observer/Span/Attr，
// xpool 只依赖接口；默认实现基于 OpenTelemetry。
// 未配置 Observer 时使用 [NoopObserver]，热路径零开销。
//
// # 使用示例
//
//	obs, _ := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(mp))
//	pool, _ := xpool.New(4, xpool.WithObserver(obs))
//
// 直接使用：
//
//	_, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Pool:      "ingest",
//		Operation: "task",
//	})
//	defer func() { span.End(xmetrics.Result{Err: err}) }()
//
// # 指标命名
//
// 任务指标（每次任务执行记录一次）：
//   - xdispatch.task.total      counter，属性 pool / operation / status
//   - xdispatch.task.duration   histogram（秒）
//
// 池指标（observable gauge，由 [RegisterPoolGauges] 注册）：
//   - xdispatch.pool.pending    已接受但尚未完成的任务数
//   - xdispatch.queue.length    队列中等待执行的任务数（近似）
//   - xdispatch.pool.workers    worker 数量
package xmetrics
