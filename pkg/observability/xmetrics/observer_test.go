package xmetrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/omeyang/xdispatch/pkg/observability/xmetrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nilObserver struct{}

func (nilObserver) Start(context.Context, xmetrics.SpanOptions) (context.Context, xmetrics.Span) {
	return nil, nil
}

func TestStart_NilObserver(t *testing.T) {
	ctx, span := xmetrics.Start(context.Background(), nil, xmetrics.SpanOptions{})
	require.NotNil(t, ctx)
	assert.IsType(t, xmetrics.NoopSpan{}, span)
	span.End(xmetrics.Result{Err: errors.New("ignored")})
}

func TestStart_NilContext(t *testing.T) {
	//nolint:staticcheck // 测试 nil ctx 兜底
	ctx, span := xmetrics.Start(nil, xmetrics.NoopObserver{}, xmetrics.SpanOptions{})
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
}

func TestStart_ObserverReturningNil(t *testing.T) {
	ctx, span := xmetrics.Start(context.Background(), nilObserver{}, xmetrics.SpanOptions{})
	assert.NotNil(t, ctx)
	assert.IsType(t, xmetrics.NoopSpan{}, span)
}

func TestStatusConstants(t *testing.T) {
	assert.Equal(t, xmetrics.Status("ok"), xmetrics.StatusOK)
	assert.Equal(t, xmetrics.Status("error"), xmetrics.StatusError)
	assert.Equal(t, xmetrics.Status("panic"), xmetrics.StatusPanic)
}
