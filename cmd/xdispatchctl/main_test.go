package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), append([]string{"xdispatchctl"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

// ============================================================================
// bench
// ============================================================================

func TestBench_Success(t *testing.T) {
	code, out, stderr := runCLI(t, "--log-level", "error",
		"bench", "--tasks", "40", "--workers", "2", "--producers", "3", "--limit", "100")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, "resolved:   40")
	assert.Contains(t, out, "failed:     0")
	assert.Contains(t, out, "primes:     25")
	assert.Contains(t, out, "workers:    2")
	assert.Contains(t, out, "metric xdispatch.task.total{status=ok}: 40")
	assert.Contains(t, out, "metric xdispatch.task.duration samples: 40")
}

func TestBench_InjectedFailuresIsolated(t *testing.T) {
	code, out, stderr := runCLI(t, "--log-level", "error",
		"bench", "-n", "50", "-w", "2", "--limit", "10", "--fail-every", "10")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, "resolved:   45")
	assert.Contains(t, out, "failed:     5")
	assert.Contains(t, out, "metric xdispatch.task.total{status=error}: 5")
	assert.Contains(t, out, "metric xdispatch.task.total{status=ok}: 45")
}

func TestBench_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero tasks", []string{"bench", "--tasks", "0"}},
		{"negative producers", []string{"bench", "--producers", "-1"}},
		{"small limit", []string{"bench", "--limit", "1"}},
		{"negative workers", []string{"bench", "--workers", "-2"}},
		{"bad log level", []string{"--log-level", "loud", "bench", "--tasks", "1"}},
		{"unknown flag", []string{"bench", "--nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			assert.Equal(t, 2, code)
		})
	}
}

func TestRunBench_Direct(t *testing.T) {
	cfg := defaultAppConfig()
	cfg.Pool.Workers = 3
	cfg.Bench.Tasks = 20
	cfg.Bench.Producers = 2
	cfg.Bench.Limit = 30

	res, err := runBench(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 20, res.Resolved)
	assert.Equal(t, 10, res.Primes)
	assert.Equal(t, uint64(20), res.Stats.Completed)
	assert.Equal(t, int64(0), res.Stats.Pending)
}

func TestRunBench_ParentCanceled(t *testing.T) {
	cfg := defaultAppConfig()
	cfg.Pool.Workers = 1
	cfg.Bench.Tasks = 5
	cfg.Bench.Limit = 10

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := runBench(ctx, cfg, discardLogger())
	require.NoError(t, err, "父 context 取消不是错误")
	assert.Equal(t, int64(0), res.Stats.Pending, "已接受的任务仍被排空")
}

func TestCountPrimes(t *testing.T) {
	tests := map[int]int{-5: 0, 1: 0, 2: 1, 3: 2, 10: 4, 100: 25, 20000: 2262}
	for n, want := range tests {
		assert.Equal(t, want, countPrimes(n), "n=%d", n)
	}
}

func TestPrimeTask_FailEvery(t *testing.T) {
	cfg := benchConfig{Limit: 10, FailEvery: 3}

	_, err := primeTask(2, cfg)()
	assert.ErrorIs(t, err, errInjected)

	v, err := primeTask(0, cfg)()
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

// ============================================================================
// queue
// ============================================================================

func TestQueue_Command(t *testing.T) {
	code, out, stderr := runCLI(t, "queue", "--items", "500", "-p", "3", "-C", "2")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "items:      1500")
	assert.Contains(t, out, "delivered:  1500")
	assert.Contains(t, out, "result:     ok")
}

func TestQueue_UsageError(t *testing.T) {
	code, _, _ := runCLI(t, "queue", "--consumers", "0")
	assert.Equal(t, 2, code)
}

func TestRunQueueCheck_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runQueueCheck(ctx, 10, 1, 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

// ============================================================================
// config
// ============================================================================

func TestConfig_FileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xdispatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pool:
  name: ingest
  workers: 6
  wait_interval: 2ms
log:
  level: warn
bench:
  tasks: 77
`), 0o600))

	code, out, stderr := runCLI(t, "-c", path, "--log-level", "debug", "config")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, `pool.name = "ingest"`)
	assert.Contains(t, out, "pool.workers = 6")
	assert.Contains(t, out, "pool.wait_interval = 2ms")
	assert.Contains(t, out, "log.level = debug", "命令行参数覆盖配置文件")
	assert.Contains(t, out, "bench.tasks = 77")
	assert.Contains(t, out, "bench.producers = 4", "缺失的键保留默认值")
}

func TestConfig_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pool": {"wokers": 3}}`), 0o600))

	code, _, stderr := runCLI(t, "--config", path, "config")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "wokers")
}

func TestConfig_MissingFile(t *testing.T) {
	code, _, stderr := runCLI(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "config")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "load config")
}

func TestIsCLIUsageError(t *testing.T) {
	assert.True(t, isCLIUsageError(errors.New("flag provided but not defined: -x")))
	assert.False(t, isCLIUsageError(errors.New("boom")))
}
