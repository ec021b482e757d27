package xlog

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig_Fallback(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "warn"

	logger, cleanup, err := NewFromConfig(cfg, &buf, slog.String("cmd", "bench"))
	require.NoError(t, err)
	defer func() { assert.NoError(t, cleanup()) }()

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "cmd=bench")
}

func TestNewFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	var buf bytes.Buffer

	logger, cleanup, err := NewFromConfig(Config{File: path, Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Info("in file")
	require.NoError(t, cleanup())

	assert.Empty(t, buf.String(), "配置了文件时不写 fallback")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"in file"`)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	_, _, err := NewFromConfig(Config{Format: "yaml"}, nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
