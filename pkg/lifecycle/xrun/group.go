package xrun

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Group 管理多个服务的并发运行与协调关闭。
//
// Go、GoWithName、Cancel 可并发调用；Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group，返回的 context 在任一服务出错或 Group 被取消时结束。
// ctx 为 nil 时视为 context.Background()，nil Option 被跳过。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     options,
	}, egCtx
}

// Go 启动一个服务。fn 应在 ctx 取消后尽快返回；返回非 nil 错误会取消其余服务。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，并在日志中记录服务的启停。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.Go(func(ctx context.Context) error {
		if fn == nil {
			return ErrNilFunc
		}
		log := g.opts.logger.With(
			slog.String("group", g.opts.name),
			slog.String("service", name),
		)
		log.Debug("service starting")
		err := fn(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("service exited with error", slog.Any("error", err))
		} else {
			log.Debug("service stopped")
		}
		return err
	})
}

// Wait 等待所有服务返回。
//
// 返回第一个非 nil 错误；由 Group 取消引起的 context.Canceled 被替换为
// 取消原因（Cancel(cause) 的 cause），没有显式原因时返回 nil。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	g.opts.logger.Debug("all services stopped", slog.String("group", g.opts.name))

	cause := g.explicitCause()
	switch {
	case errors.Is(err, context.Canceled):
		// 服务内部产生的 Canceled 不属于 Group 取消，原样返回
		if g.causeCtx.Err() == nil {
			return err
		}
		return cause
	case err == nil:
		return cause
	default:
		return err
	}
}

// explicitCause 返回 Cancel 设置的非 Canceled 原因。
func (g *Group) explicitCause() error {
	if g.causeCtx.Err() == nil {
		return nil
	}
	if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}

// Cancel 取消所有服务，cause 作为 Wait 的返回值。
// cause 不应包装 context.Canceled，否则会被视为普通取消。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context。
func (g *Group) Context() context.Context {
	return g.ctx
}

// ----------------------------------------------------------------------------
// 便捷函数
// ----------------------------------------------------------------------------

func runGroup(ctx context.Context, opts []Option, setup func(g *Group)) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignalHandler {
		signals := g.opts.signals
		if len(signals) == 0 {
			signals = DefaultSignals()
		}
		g.Go(g.watchSignals(signals))
	}
	setup(g)
	return g.Wait()
}

// Run 监听 DefaultSignals 并运行服务，收到信号时返回 [*SignalError]。
func Run(ctx context.Context, services ...func(ctx context.Context) error) error {
	return RunWithOptions(ctx, nil, services...)
}

// RunWithOptions 与 Run 相同，但支持配置选项。
func RunWithOptions(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	return runGroup(ctx, opts, func(g *Group) {
		for _, svc := range services {
			g.Go(svc)
		}
	})
}

// Service 是可由 RunServices 管理的服务，Run 阻塞到 ctx 取消或出错。
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc 将函数适配为 Service。
type ServiceFunc func(ctx context.Context) error

// Run 实现 Service 接口。
func (f ServiceFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// RunServices 运行多个 Service，监听信号并协调关闭。nil Service 返回 [ErrNilService]。
func RunServices(ctx context.Context, opts []Option, services ...Service) error {
	return runGroup(ctx, opts, func(g *Group) {
		for _, svc := range services {
			if svc == nil {
				g.Go(func(context.Context) error { return ErrNilService })
				continue
			}
			g.Go(svc.Run)
		}
	})
}
