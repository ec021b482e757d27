package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xdispatch/pkg/config/xconf"
	"github.com/omeyang/xdispatch/pkg/observability/xlog"
	"github.com/omeyang/xdispatch/pkg/util/xpool"
)

// appConfig 是 xdispatchctl 的完整配置。
//
//	pool:
//	  workers: 8
//	log:
//	  level: info
//	bench:
//	  tasks: 10000
//	  producers: 4
//	  limit: 20000
type appConfig struct {
	Pool  xpool.Config `koanf:"pool"`
	Log   xlog.Config  `koanf:"log"`
	Bench benchConfig  `koanf:"bench"`
}

type benchConfig struct {
	Tasks           int           `koanf:"tasks"`
	Producers       int           `koanf:"producers"`
	Limit           int           `koanf:"limit"`
	FailEvery       int           `koanf:"fail_every"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func defaultAppConfig() appConfig {
	return appConfig{
		Pool: xpool.DefaultConfig(),
		Log:  xlog.DefaultConfig(),
		Bench: benchConfig{
			Tasks:           10000,
			Producers:       4,
			Limit:           20000,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

// flagOverride 把显式设置的命令行参数写入配置键。
type flagOverride struct {
	flag  string
	key   string
	value func(cmd *cli.Command) any
}

func stringFlag(name string) func(*cli.Command) any {
	return func(cmd *cli.Command) any { return cmd.String(name) }
}

func intFlag(name string) func(*cli.Command) any {
	return func(cmd *cli.Command) any { return cmd.Int(name) }
}

var overrides = []flagOverride{
	{"log-level", "log.level", stringFlag("log-level")},
	{"log-format", "log.format", stringFlag("log-format")},
	{"log-file", "log.file", stringFlag("log-file")},
	{"workers", "pool.workers", intFlag("workers")},
	{"tasks", "bench.tasks", intFlag("tasks")},
	{"producers", "bench.producers", intFlag("producers")},
	{"limit", "bench.limit", intFlag("limit")},
	{"fail-every", "bench.fail_every", intFlag("fail-every")},
}

// loadConfig 合并默认值、配置文件与命令行参数。
func loadConfig(cmd *cli.Command) (appConfig, error) {
	src := xconf.Empty(xconf.WithStrict())
	if path := cmd.String("config"); path != "" {
		loaded, err := xconf.New(path, xconf.WithStrict())
		if err != nil {
			return appConfig{}, fmt.Errorf("load config: %w", err)
		}
		src = loaded
	}

	for _, o := range overrides {
		if !cmd.IsSet(o.flag) {
			continue
		}
		if err := src.Set(o.key, o.value(cmd)); err != nil {
			return appConfig{}, fmt.Errorf("apply --%s: %w", o.flag, err)
		}
	}

	cfg := defaultAppConfig()
	if err := src.Unmarshal("", &cfg); err != nil {
		return appConfig{}, newUsageError("%v", err)
	}
	return cfg, nil
}

// newLogger 按配置构建 Logger，未配置文件时写入 stderr。
func newLogger(cfg xlog.Config, stderr io.Writer, command string) (*slog.Logger, func() error, error) {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger, cleanup, err := xlog.NewFromConfig(cfg, stderr, slog.String("cmd", command))
	if err != nil {
		return nil, nil, newUsageError("log config: %v", err)
	}
	return logger, cleanup, nil
}

func createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "输出合并后的生效配置",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			printConfig(cmd.Root().Writer, cfg)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg appConfig) {
	fmt.Fprintf(w, "pool.name = %q\n", cfg.Pool.Name)
	fmt.Fprintf(w, "pool.workers = %d\n", cfg.Pool.Workers)
	fmt.Fprintf(w, "pool.wait_interval = %s\n", cfg.Pool.WaitInterval)
	fmt.Fprintf(w, "pool.log_panic_value = %t\n", cfg.Pool.LogPanicValue)
	fmt.Fprintf(w, "log.level = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "log.format = %s\n", cfg.Log.Format)
	fmt.Fprintf(w, "log.file = %q\n", cfg.Log.File)
	fmt.Fprintf(w, "log.max_size_mb = %d\n", cfg.Log.MaxSizeMB)
	fmt.Fprintf(w, "log.max_backups = %d\n", cfg.Log.MaxBackups)
	fmt.Fprintf(w, "bench.tasks = %d\n", cfg.Bench.Tasks)
	fmt.Fprintf(w, "bench.producers = %d\n", cfg.Bench.Producers)
	fmt.Fprintf(w, "bench.limit = %d\n", cfg.Bench.Limit)
	fmt.Fprintf(w, "bench.fail_every = %d\n", cfg.Bench.FailEvery)
	fmt.Fprintf(w, "bench.shutdown_timeout = %s\n", cfg.Bench.ShutdownTimeout)
}
