// Package xlog 基于 log/slog 构建进程级 Logger。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，后续 Set 操作被跳过）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xdispatch/app.log", 100, 5).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// Build 返回标准 *slog.Logger，可直接注入 xpool.WithLogger、xrun.WithLogger 等。
// 动态级别通过 [Builder.LevelVar] 获取的 *slog.LevelVar 调整。
//
// # 配置
//
// [Config] 带 koanf 标签，可由 xconf 直接反序列化，再通过 [NewFromConfig] 构建：
//
//	log:
//	  level: info
//	  format: text
//	  file: ""
//	  max_size_mb: 100
//	  max_backups: 5
//
// file 为空时输出到 stderr；否则经 lumberjack 按大小轮转写入文件。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// Level 实现 encoding.TextMarshaler/TextUnmarshaler。
package xlog
