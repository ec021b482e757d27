package xpool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xdispatch/pkg/observability/xmetrics"
	"github.com/omeyang/xdispatch/pkg/util/xqueue"
)

// maxWorkers 是 worker 数量上限。
const maxWorkers = 1 << 16

var _ io.Closer = (*Pool)(nil)

// State 表示 pool 的生命周期状态。
type State int32

const (
	// StateRunning 接受新任务。
	StateRunning State = iota
	// StateDraining 拒绝新任务，worker 继续执行已入队的任务。
	StateDraining
	// StateTerminated 所有 worker 已退出。
	StateTerminated
)

// String 返回状态名。
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Stats 是 pool 运行统计的快照，各字段分别读取，彼此之间不保证一致。
type Stats struct {
	Workers   int
	State     State
	Submitted uint64
	Completed uint64
	Succeeded uint64
	Failed    uint64
	Panicked  uint64
	// Pending 已接受但尚未完成的任务数（含正在执行的）。
	Pending int64
	// Queued 队列中等待执行的任务数（近似）。
	Queued int
}

// Pool 是固定大小的 worker pool。
//
// 队列本身只用原子操作保护；pool 的共享状态（生命周期、计数器）同样只用原子变量。
type Pool struct {
	name    string
	workers int
	opts    options
	queue   *xqueue.Queue[*task]

	state      atomic.Int32
	submitters atomic.Int64 // 正在执行入队的 Submit 数量
	pending    atomic.Int64
	seq        atomic.Uint64

	submitted atomic.Uint64
	completed atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64

	// ctx 取消即 done 信号
	ctx  context.Context
	stop context.CancelFunc

	wg           sync.WaitGroup
	done         chan struct{}
	shutdownOnce sync.Once
	gaugeReg     metric.Registration
}

// New 创建并启动 worker pool。
//
// workers 必须在 [1, 65536] 范围内，否则返回 [ErrInvalidWorkers]。
// 任一选项失败时返回错误且不启动任何 worker。
func New(workers int, opts ...Option) (*Pool, error) {
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidWorkers, workers, maxWorkers)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(&o)
	}
	if o.name == "" {
		o.name = "xpool-" + uuid.NewString()[:8]
	}

	ctx, stop := context.WithCancel(context.Background())
	p := &Pool{
		name:    o.name,
		workers: workers,
		opts:    o,
		queue:   xqueue.New[*task](),
		ctx:     ctx,
		stop:    stop,
		done:    make(chan struct{}),
	}

	if o.gauges {
		reg, err := xmetrics.RegisterPoolGauges(p.name, p.snapshot, o.gaugeOpts...)
		if err != nil {
			stop()
			return nil, err
		}
		p.gaugeReg = reg
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	go p.awaitWorkers()

	p.opts.logger.Debug("xpool: started",
		slog.String("pool", p.name),
		slog.Int("workers", workers),
	)
	return p, nil
}

// Submit 提交任务，立即返回对应的 Future，从不阻塞。
//
// 任务的返回值和错误通过 Future 交付；panic 被恢复为 [*PanicError]。
// pool 已开始关闭时返回 [ErrPoolStopped]，此时任务不会执行。
func Submit[T any](p *Pool, fn func() (T, error)) (*Future[T], error) {
	if p == nil {
		return nil, ErrNilPool
	}
	if fn == nil {
		return nil, ErrNilTask
	}
	t, f := newTask(p.seq.Add(1), fn)
	if err := p.enqueue(t); err != nil {
		return nil, err
	}
	return f, nil
}

// Go 提交没有结果值的任务，Future 在任务完成时就绪。
func Go(p *Pool, fn func() error) (*Future[struct{}], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

// enqueue 与 beginShutdown 通过 submitters 计数配合：
// 先登记再检查状态，保证关闭方要么拒绝本次提交，要么等待它入队完成。
func (p *Pool) enqueue(t *task) error {
	p.submitters.Add(1)
	defer p.submitters.Add(-1)

	if State(p.state.Load()) != StateRunning {
		return ErrPoolStopped
	}
	p.pending.Add(1)
	p.submitted.Add(1)
	t.enqueued = time.Now()
	p.queue.Push(t)
	return nil
}

// worker 循环取任务执行，收到 done 信号后排空队列再退出。
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		t, err := p.queue.WaitPop(p.ctx)
		if err != nil {
			break
		}
		p.run(t)
	}
	for {
		t, ok := p.queue.TryPop()
		if !ok {
			return
		}
		p.run(t)
	}
}

func (p *Pool) run(t *task) {
	_, span := xmetrics.Start(context.Background(), p.opts.observer, xmetrics.SpanOptions{
		Pool:      p.name,
		Operation: "task",
		Attrs: []xmetrics.Attr{
			xmetrics.Uint64("task.id", t.id),
			xmetrics.Duration("queue_wait_ns", time.Since(t.enqueued)),
		},
	})

	panicked, err := t.execute()

	status := xmetrics.StatusOK
	switch {
	case panicked:
		status = xmetrics.StatusPanic
		p.panicked.Add(1)
		p.logPanic(t, err)
	case err != nil:
		status = xmetrics.StatusError
		p.failed.Add(1)
		p.opts.logger.Debug("xpool: task failed",
			slog.String("pool", p.name),
			slog.Uint64("task_id", t.id),
			slog.Any("error", err),
		)
	default:
		p.succeeded.Add(1)
	}
	span.End(xmetrics.Result{Status: status, Err: err})

	p.completed.Add(1)
	// Promise 已在 execute 中兑现，pending 归零即意味着所有 Future 就绪
	p.pending.Add(-1)
}

func (p *Pool) logPanic(t *task, err error) {
	perr, ok := err.(*PanicError)
	if !ok {
		return
	}
	attrs := []any{
		slog.String("pool", p.name),
		slog.Uint64("task_id", t.id),
		slog.String("panic_type", fmt.Sprintf("%T", perr.Value)),
		slog.String("stack", string(perr.Stack)),
	}
	if p.opts.logPanicValue {
		attrs = append(attrs, slog.Any("panic", perr.Value))
	}
	p.opts.logger.Error("xpool: task panic recovered", attrs...)
}

// awaitWorkers 在所有 worker 退出后完成终止流程。
func (p *Pool) awaitWorkers() {
	p.wg.Wait()
	p.state.Store(int32(StateTerminated))
	if p.gaugeReg != nil {
		if err := p.gaugeReg.Unregister(); err != nil {
			p.opts.logger.Warn("xpool: unregister gauges failed",
				slog.String("pool", p.name),
				slog.Any("error", err),
			)
		}
	}
	p.opts.logger.Debug("xpool: terminated",
		slog.String("pool", p.name),
		slog.Uint64("completed", p.completed.Load()),
	)
	close(p.done)
}

// Wait 阻塞直到所有已接受的任务都已完成（其 Future 均已就绪），或 ctx 结束。
//
// 与队列是否为空无关：正在执行的最后一个任务也会被等待。
// 并发 Submit 时，Wait 返回只说明某一时刻待完成数为零。
func (p *Pool) Wait(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	if p.pending.Load() == 0 {
		return nil
	}
	ticker := time.NewTicker(p.opts.waitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if p.pending.Load() == 0 {
				return nil
			}
		case <-p.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Shutdown 关闭 pool：拒绝新任务，等待已接受的任务全部执行完毕。
//
// ctx 到期时返回 ctx.Err()，worker 仍在后台排空队列，可通过 [Pool.Done] 等待。
// 可重复调用；ctx 为 nil 时返回 [ErrNilContext]。
func (p *Pool) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.shutdownOnce.Do(p.beginShutdown)

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) beginShutdown() {
	p.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
	// 等待已通过状态检查的 Submit 完成入队
	for p.submitters.Load() > 0 {
		runtime.Gosched()
	}
	p.opts.logger.Debug("xpool: draining",
		slog.String("pool", p.name),
		slog.Int64("pending", p.pending.Load()),
	)
	p.stop()
}

// Close 等价于 Shutdown(context.Background())，无限等待排空。
func (p *Pool) Close() error {
	return p.Shutdown(context.Background())
}

// Done 返回在所有 worker 退出后关闭的 channel。
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Name 返回 pool 名称。
func (p *Pool) Name() string {
	return p.name
}

// Workers 返回 worker 数量。
func (p *Pool) Workers() int {
	return p.workers
}

// Pending 返回已接受但尚未完成的任务数。
func (p *Pool) Pending() int64 {
	return p.pending.Load()
}

// State 返回当前生命周期状态。
func (p *Pool) State() State {
	return State(p.state.Load())
}

// Stats 返回运行统计快照。
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		State:     p.State(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
		Pending:   p.pending.Load(),
		Queued:    p.queue.Len(),
	}
}

func (p *Pool) snapshot() xmetrics.PoolSnapshot {
	return xmetrics.PoolSnapshot{
		Pending:     p.pending.Load(),
		QueueLength: p.queue.Len(),
		Workers:     p.workers,
	}
}
