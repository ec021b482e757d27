// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 基于 log/slog 的 Logger 构建器，支持 lumberjack 文件轮转
//   - xmetrics: 基于 OpenTelemetry 的任务跨度、计数、耗时直方图和 pool 状态 gauge
package observability
