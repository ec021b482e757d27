package xconf

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolSection struct {
	Name         string        `koanf:"name"`
	Workers      int           `koanf:"workers"`
	WaitInterval time.Duration `koanf:"wait_interval"`
}

type appConfig struct {
	Pool poolSection `koanf:"pool"`
	Log  struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

const testYAML = `
pool:
  name: ingest
  workers: 8
  wait_interval: 10ms
log:
  level: debug
`

const testJSON = `{"pool": {"name": "ingest", "workers": 8, "wait_interval": "10ms"}, "log": {"level": "debug"}}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// =============================================================================
// 加载
// =============================================================================

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		format  Format
	}{
		{"yaml", "c.yaml", testYAML, FormatYAML},
		{"yml", "c.yml", testYAML, FormatYAML},
		{"json", "c.json", testJSON, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			cfg, err := New(path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, cfg.Format())
			assert.Equal(t, path, cfg.Path())

			var app appConfig
			require.NoError(t, cfg.Unmarshal("", &app))
			assert.Equal(t, "ingest", app.Pool.Name)
			assert.Equal(t, 8, app.Pool.Workers)
			assert.Equal(t, 10*time.Millisecond, app.Pool.WaitInterval)
			assert.Equal(t, "debug", app.Log.Level)
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = New("config.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)

	_, err = New(writeFile(t, "bad.json", "{not json"))
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testJSON), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path())
	assert.True(t, cfg.Exists("pool.workers"))

	empty, err := NewFromBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, empty.Keys())

	_, err = NewFromBytes([]byte("x"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// =============================================================================
// Unmarshal
// =============================================================================

func TestUnmarshal_KeepsDefaults(t *testing.T) {
	cfg, err := NewFromBytes([]byte("pool:\n  workers: 3\n"), FormatYAML)
	require.NoError(t, err)

	section := poolSection{Name: "default", Workers: 1, WaitInterval: time.Second}
	require.NoError(t, cfg.Unmarshal("pool", &section))

	assert.Equal(t, 3, section.Workers)
	assert.Equal(t, "default", section.Name, "缺失的键保持默认值")
	assert.Equal(t, time.Second, section.WaitInterval)
}

func TestUnmarshal_Strict(t *testing.T) {
	data := []byte("pool:\n  wokers: 3\n")

	lenient, err := NewFromBytes(data, FormatYAML)
	require.NoError(t, err)
	var a poolSection
	require.NoError(t, lenient.Unmarshal("pool", &a))

	strict, err := NewFromBytes(data, FormatYAML, WithStrict())
	require.NoError(t, err)
	var b poolSection
	err = strict.Unmarshal("pool", &b)
	assert.ErrorIs(t, err, ErrUnmarshalFailed)
	assert.Contains(t, err.Error(), "wokers")
}

func TestUnmarshal_StrictParsesDurations(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testYAML), FormatYAML, WithStrict())
	require.NoError(t, err)

	var section poolSection
	require.NoError(t, cfg.Unmarshal("pool", &section))
	assert.Equal(t, 10*time.Millisecond, section.WaitInterval)
}

func TestUnmarshal_NilTarget(t *testing.T) {
	assert.ErrorIs(t, Empty().Unmarshal("", nil), ErrNilTarget)
}

func TestMustUnmarshal_Panics(t *testing.T) {
	cfg, err := NewFromBytes([]byte("pool:\n  workers: many\n"), FormatYAML)
	require.NoError(t, err)

	var section poolSection
	assert.Panics(t, func() { cfg.MustUnmarshal("pool", &section) })
}

func TestWithTag(t *testing.T) {
	type tagged struct {
		Workers int `json:"workers"`
	}
	cfg, err := NewFromBytes([]byte(`{"workers": 5}`), FormatJSON, WithTag("json"), WithTag(""))
	require.NoError(t, err)

	var v tagged
	require.NoError(t, cfg.Unmarshal("", &v))
	assert.Equal(t, 5, v.Workers)
}

func TestWithDelim(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testYAML), FormatYAML, WithDelim("/"))
	require.NoError(t, err)
	assert.True(t, cfg.Exists("pool/workers"))
	assert.False(t, cfg.Exists("pool.workers"))
}

// =============================================================================
// Set / Reload
// =============================================================================

func TestSet_OverridesFile(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testYAML), FormatYAML)
	require.NoError(t, err)
	require.NoError(t, cfg.Set("pool.workers", 2))

	var section poolSection
	require.NoError(t, cfg.Unmarshal("pool", &section))
	assert.Equal(t, 2, section.Workers)
	assert.Equal(t, "ingest", section.Name)
}

func TestEmpty_Set(t *testing.T) {
	cfg := Empty()
	require.NoError(t, cfg.Set("log.level", "warn"))
	assert.Equal(t, []string{"log.level"}, cfg.Keys())
}

func TestReload(t *testing.T) {
	path := writeFile(t, "c.yaml", "pool:\n  workers: 1\n")
	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("pool:\n  workers: 9\n"), 0o600))
	require.NoError(t, cfg.Reload())

	var section poolSection
	require.NoError(t, cfg.Unmarshal("pool", &section))
	assert.Equal(t, 9, section.Workers)
}

func TestReload_KeepsOldOnParseError(t *testing.T) {
	path := writeFile(t, "c.json", `{"pool": {"workers": 4}}`)
	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	assert.ErrorIs(t, cfg.Reload(), ErrParseFailed)

	var section poolSection
	require.NoError(t, cfg.Unmarshal("pool", &section))
	assert.Equal(t, 4, section.Workers)
}

func TestReload_NotFromFile(t *testing.T) {
	assert.ErrorIs(t, Empty().Reload(), ErrNotReloadable)
}

func TestReload_Concurrent(t *testing.T) {
	path := writeFile(t, "c.yaml", testYAML)
	cfg, err := New(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cfg.Reload())
		}()
		go func() {
			defer wg.Done()
			var app appConfig
			assert.NoError(t, cfg.Unmarshal("", &app))
		}()
	}
	wg.Wait()
}
