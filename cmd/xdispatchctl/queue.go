package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xdispatch/pkg/util/xqueue"
)

var errDuplicate = errors.New("queue: item delivered twice")

func createQueueCommand() *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "多生产者多消费者压测 xqueue，校验无丢失、无重复",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "items", Usage: "每个生产者写入的元素数", Value: 100000},
			&cli.IntFlag{Name: "producers", Aliases: []string{"p"}, Usage: "生产者数量", Value: 4},
			&cli.IntFlag{Name: "consumers", Aliases: []string{"C"}, Usage: "消费者数量", Value: 4},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			items, producers, consumers := cmd.Int("items"), cmd.Int("producers"), cmd.Int("consumers")
			if items <= 0 || producers <= 0 || consumers <= 0 {
				return newUsageError("items, producers and consumers must be positive")
			}
			res, err := runQueueCheck(ctx, items, producers, consumers)
			if err != nil {
				return err
			}
			res.print(cmd.Root().Writer)
			return nil
		},
	}
}

type queueResult struct {
	Total     int
	Delivered int
	Elapsed   time.Duration
}

// runQueueCheck 并发写入 producers*items 个互不相同的元素，由 consumers 个消费者
// 阻塞弹出，校验每个元素恰好出队一次。
func runQueueCheck(ctx context.Context, items, producers, consumers int) (queueResult, error) {
	total := items * producers
	q := xqueue.New[int]()
	seen := make([]atomic.Bool, total)
	var delivered atomic.Int64

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	start := time.Now()
	g, gctx := errgroup.WithContext(consumeCtx)
	for p := range producers {
		g.Go(func() error {
			for i := range items {
				if err := gctx.Err(); err != nil {
					return err
				}
				q.Push(p*items + i)
			}
			return nil
		})
	}
	for range consumers {
		g.Go(func() error {
			for {
				v, err := q.WaitPop(gctx)
				if err != nil {
					return nil
				}
				if !seen[v].CompareAndSwap(false, true) {
					return fmt.Errorf("%w: %d", errDuplicate, v)
				}
				if delivered.Add(1) == int64(total) {
					stop()
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return queueResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return queueResult{}, err
	}

	res := queueResult{Total: total, Delivered: int(delivered.Load()), Elapsed: time.Since(start)}
	if res.Delivered != total || !q.IsEmpty() {
		return res, fmt.Errorf("queue: delivered %d of %d items", res.Delivered, total)
	}
	return res, nil
}

func (r queueResult) print(w io.Writer) {
	fmt.Fprintf(w, "items:      %d\n", r.Total)
	fmt.Fprintf(w, "delivered:  %d\n", r.Delivered)
	fmt.Fprintf(w, "elapsed:    %s\n", r.Elapsed.Round(time.Microsecond))
	if secs := r.Elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, "throughput: %.0f items/s\n", float64(r.Total)/secs)
	}
	fmt.Fprintln(w, "result:     ok")
}
