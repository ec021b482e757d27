package xpool

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, defaultWaitInterval, cfg.WaitInterval)
	assert.Empty(t, cfg.Name)
	assert.False(t, cfg.LogPanicValue)
}

func TestNewFromConfig(t *testing.T) {
	p, err := NewFromConfig(Config{
		Name:          "from-config",
		Workers:       2,
		WaitInterval:  time.Millisecond,
		LogPanicValue: true,
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Close()) }()

	assert.Equal(t, "from-config", p.Name())
	assert.Equal(t, 2, p.Workers())
	assert.Equal(t, time.Millisecond, p.opts.waitInterval)
	assert.True(t, p.opts.logPanicValue)
}

func TestNewFromConfig_ZeroWorkersUsesCPU(t *testing.T) {
	p, err := NewFromConfig(Config{})
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Close()) }()

	assert.Equal(t, runtime.NumCPU(), p.Workers())
	assert.Equal(t, defaultWaitInterval, p.opts.waitInterval)
}

func TestNewFromConfig_OptionsOverride(t *testing.T) {
	p, err := NewFromConfig(Config{Name: "cfg", Workers: 1}, WithName("override"))
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Close()) }()

	assert.Equal(t, "override", p.Name())
}

func TestNewFromConfig_Invalid(t *testing.T) {
	_, err := NewFromConfig(Config{Workers: -3})
	assert.ErrorIs(t, err, ErrInvalidWorkers)
}
