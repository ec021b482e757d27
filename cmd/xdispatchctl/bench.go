package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xdispatch/pkg/lifecycle/xrun"
	"github.com/omeyang/xdispatch/pkg/observability/xmetrics"
	"github.com/omeyang/xdispatch/pkg/util/xpool"
)

var (
	// errWorkloadDone 由生产者服务返回，用于结束 xrun 分组。
	errWorkloadDone = errors.New("bench: workload done")
	errInjected     = errors.New("bench: injected failure")
)

func createBenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "用 worker pool 执行素数计数任务并输出统计",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "tasks", Aliases: []string{"n"}, Usage: "任务总数"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "worker 数量，0 表示 CPU 数"},
			&cli.IntFlag{Name: "producers", Aliases: []string{"p"}, Usage: "并发提交的生产者数量"},
			&cli.IntFlag{Name: "limit", Usage: "每个任务统计 [2, limit] 内的素数"},
			&cli.IntFlag{Name: "fail-every", Usage: "每 N 个任务注入一次失败，0 表示不注入"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Bench.validate(); err != nil {
				return err
			}
			logger, cleanup, err := newLogger(cfg.Log, cmd.Root().ErrWriter, "bench")
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			res, err := runBench(ctx, cfg, logger)
			res.print(cmd.Root().Writer)
			return err
		},
	}
}

func (c benchConfig) validate() error {
	switch {
	case c.Tasks <= 0:
		return newUsageError("tasks must be positive, got %d", c.Tasks)
	case c.Producers <= 0:
		return newUsageError("producers must be positive, got %d", c.Producers)
	case c.Limit < 2:
		return newUsageError("limit must be >= 2, got %d", c.Limit)
	case c.FailEvery < 0:
		return newUsageError("fail-every must not be negative, got %d", c.FailEvery)
	}
	return nil
}

// benchResult 汇总一次压测的结果。
type benchResult struct {
	Tasks     int
	Resolved  int
	Failed    int
	Primes    int
	Elapsed   time.Duration
	Stats     xpool.Stats
	Completed map[string]int64 // 按状态统计的 xdispatch.task.total
	Durations uint64           // xdispatch.task.duration 样本数
}

// runBench 创建 pool 并在 xrun 分组中运行生产者；收到信号时 pool 仍会排空已接受的任务。
func runBench(ctx context.Context, cfg appConfig, logger *slog.Logger, runOpts ...xrun.Option) (benchResult, error) {
	res := benchResult{Tasks: cfg.Bench.Tasks}

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.WithoutCancel(ctx)) }()

	obs, err := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(mp))
	if err != nil {
		return res, err
	}
	pool, err := xpool.NewFromConfig(cfg.Pool,
		xpool.WithLogger(logger),
		xpool.WithObserver(obs),
		xpool.WithGauges(xmetrics.WithMeterProvider(mp)),
	)
	if err != nil {
		return res, newUsageError("%v", err)
	}

	logger.Info("bench started",
		slog.String("pool", pool.Name()),
		slog.Int("workers", pool.Workers()),
		slog.Int("tasks", cfg.Bench.Tasks),
		slog.Int("producers", cfg.Bench.Producers),
	)

	start := time.Now()
	opts := append([]xrun.Option{xrun.WithLogger(logger), xrun.WithName("bench")}, runOpts...)
	err = xrun.RunWithOptions(ctx, opts,
		xrun.Shutdown(pool.Shutdown, cfg.Bench.ShutdownTimeout),
		func(ctx context.Context) error {
			if err := produce(ctx, pool, cfg.Bench, &res); err != nil {
				return err
			}
			return errWorkloadDone
		},
	)
	if errors.Is(err, errWorkloadDone) {
		err = nil
	}
	res.Elapsed = time.Since(start)
	res.Stats = pool.Stats()

	var rm metricdata.ResourceMetrics
	if cerr := reader.Collect(context.WithoutCancel(ctx), &rm); cerr == nil {
		res.Completed, res.Durations = summarize(rm)
	}

	logger.Info("bench finished",
		slog.Duration("elapsed", res.Elapsed),
		slog.Uint64("completed", res.Stats.Completed),
	)
	return res, err
}

// produce 由多个生产者并发提交任务，再按提交顺序收集结果。
func produce(ctx context.Context, pool *xpool.Pool, cfg benchConfig, res *benchResult) error {
	futures := make([]*xpool.Future[int], cfg.Tasks)

	g, gctx := errgroup.WithContext(ctx)
	for p := range cfg.Producers {
		g.Go(func() error {
			for i := p; i < cfg.Tasks; i += cfg.Producers {
				if err := gctx.Err(); err != nil {
					return err
				}
				f, err := xpool.Submit(pool, primeTask(i, cfg))
				if err != nil {
					return fmt.Errorf("submit task %d: %w", i, err)
				}
				futures[i] = f
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, f := range futures {
		v, err := f.Get(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			res.Failed++
		default:
			res.Resolved++
			res.Primes = v
		}
	}
	return nil
}

func primeTask(i int, cfg benchConfig) func() (int, error) {
	return func() (int, error) {
		if cfg.FailEvery > 0 && (i+1)%cfg.FailEvery == 0 {
			return 0, fmt.Errorf("task %d: %w", i, errInjected)
		}
		return countPrimes(cfg.Limit), nil
	}
}

// countPrimes 用埃氏筛统计 [2, n] 内的素数个数。
func countPrimes(n int) int {
	if n < 2 {
		return 0
	}
	composite := make([]bool, n+1)
	count := 0
	for i := 2; i <= n; i++ {
		if composite[i] {
			continue
		}
		count++
		for j := i * i; j <= n; j += i {
			composite[j] = true
		}
	}
	return count
}

// summarize 从采集结果中提取任务计数（按状态）和耗时直方图样本数。
func summarize(rm metricdata.ResourceMetrics) (map[string]int64, uint64) {
	byStatus := make(map[string]int64)
	var samples uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name != "xdispatch.task.total" {
					continue
				}
				for _, dp := range data.DataPoints {
					status, _ := dp.Attributes.Value(attribute.Key("status"))
					byStatus[status.AsString()] += dp.Value
				}
			case metricdata.Histogram[float64]:
				if m.Name != "xdispatch.task.duration" {
					continue
				}
				for _, dp := range data.DataPoints {
					samples += dp.Count
				}
			}
		}
	}
	return byStatus, samples
}

func (r benchResult) print(w io.Writer) {
	fmt.Fprintf(w, "tasks:      %d\n", r.Tasks)
	fmt.Fprintf(w, "resolved:   %d\n", r.Resolved)
	fmt.Fprintf(w, "failed:     %d\n", r.Failed)
	fmt.Fprintf(w, "primes:     %d\n", r.Primes)
	fmt.Fprintf(w, "workers:    %d\n", r.Stats.Workers)
	fmt.Fprintf(w, "completed:  %d (succeeded %d, failed %d, panicked %d)\n",
		r.Stats.Completed, r.Stats.Succeeded, r.Stats.Failed, r.Stats.Panicked)
	fmt.Fprintf(w, "elapsed:    %s\n", r.Elapsed.Round(time.Microsecond))
	if secs := r.Elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, "throughput: %.0f tasks/s\n", float64(r.Stats.Completed)/secs)
	}

	statuses := make([]string, 0, len(r.Completed))
	for s := range r.Completed {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(w, "metric xdispatch.task.total{status=%s}: %d\n", s, r.Completed[s])
	}
	if r.Durations > 0 {
		fmt.Fprintf(w, "metric xdispatch.task.duration samples: %d\n", r.Durations)
	}
}
