// Package xpool 提供基于无锁队列的 worker pool，任务结果通过 Future 返回。
//
// Pool 持有固定数量的 worker goroutine 和一个共享的 [xqueue.Queue]。
// 调用方通过 [Submit] 提交零参数的任务函数，立即得到一个 [Future]；
// 空闲 worker 取出任务执行，并把返回值或错误写入对应的 [Promise]。
//
// 支持以下特性：
//   - 泛型结果类型：Submit[T] 返回 *Future[T]
//   - 可配置的 worker 数量（[1, 65536]），创建后固定不变
//   - Submit 永不阻塞（队列无界，无背压）
//   - 任务失败隔离：返回的 error 和 panic 都只影响自身的 Future
//   - 优雅关闭：Shutdown 之前已接受的任务保证全部执行（排空策略）
//   - 超时关闭：Shutdown(ctx) 在 ctx 到期后返回，worker 在后台继续排空
//   - Wait(ctx)：严格的完成屏障，基于待完成计数而非队列是否为空
//   - 可注入日志记录器（WithLogger）、OTel 观测（WithObserver / WithGauges）
//
// # 生命周期
//
//	Running ──Shutdown──▶ Draining ──所有 worker 退出──▶ Terminated
//
// 状态单向迁移，关闭后不可重启。Draining 期间 Submit 返回 [ErrPoolStopped]。
//
// # 关闭策略
//
// Shutdown 先把状态切换为 Draining，等待正在执行的 Submit 完成入队，
// 再设置 done 信号。worker 观察到 done 之后会继续从队列取任务，
// 直到队列为空才退出。因此任何 Submit 返回 nil error 的任务都会被执行。
//
// Close 等价于 Shutdown(context.Background())。
//
// # 错误分类
//
//   - 任务失败：任务返回的 error 原样通过 Future.Get 返回；
//     panic 被恢复为 [*PanicError]，可用 errors.Is(err, ErrTaskPanicked) 判断。
//     不会重试。
//   - 队列为空：不是错误，worker 会挂起等待。
//   - 创建失败：参数无效或 gauge 注册失败时 New 返回错误，不会返回部分创建的 pool。
//
// # 注意事项
//
//   - 不支持取消已提交的任务
//   - 不保证任务的完成顺序；单生产者时按提交顺序被取出
//   - Close/Shutdown 不可在任务内调用，否则会等待自身而死锁（Shutdown 可借 ctx 超时返回）
//   - panic 日志默认只记录 panic 值的类型，WithLogPanicValue 启用完整值输出
package xpool
