// xdispatchctl 是 xpool/xqueue 的压测与自检工具。
//
// 用法:
//
//	xdispatchctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件（.yaml/.yml/.json）
//	    --log-level   日志级别 (debug/info/warn/error)
//	    --log-format  日志格式 (text/json)
//	    --log-file    日志文件，按大小轮转
//
// 命令:
//
//	bench    用 worker pool 执行一批素数计数任务，输出统计与 OTel 指标
//	queue    多生产者多消费者压测 xqueue，校验无丢失、无重复
//	config   输出合并后的生效配置
//
// 配置优先级：命令行参数 > 配置文件 > 内置默认值。
//
// 退出码:
//
//	0: 成功
//	1: 运行失败或被信号中断
//	2: 参数错误
//
// 示例:
//
//	xdispatchctl bench --tasks 100000 --workers 8 --producers 4
//	xdispatchctl -c xdispatch.yaml --log-level debug bench
//	xdispatchctl queue --items 1000000 --producers 4 --consumers 4
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xdispatchctl",
		Usage:     "xpool / xqueue 压测与自检工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.yaml/.yml/.json）",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 (debug/info/warn/error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 (text/json)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径，为空时输出到 stderr",
			},
		},
		Commands: []*cli.Command{
			createBenchCommand(),
			createQueueCommand(),
			createConfigCommand(),
		},
		// 退出码由 run 统一映射，禁止 urfave/cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)
	err := app.Run(ctx, args)
	if err == nil {
		return 0
	}

	var usageErr *usageError
	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	case isCLIUsageError(err):
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return 2
	default:
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
}

// usageError 表示命令参数不合法。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// isCLIUsageError 识别 urfave/cli 在参数解析阶段产生的错误。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{
		"flag provided but not defined",
		"invalid value",
		"flag needs an argument",
		"No help topic for",
	} {
		if strings.Contains(msg, prefix) {
			return true
		}
	}
	return false
}
