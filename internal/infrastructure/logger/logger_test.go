package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestForEnvironment(t *testing.T) {
	t.Run("production defaults to json", func(t *testing.T) {
		cfg := ForEnvironment("production", Config{})
		assert.Equal(t, Config{Level: "info", Format: "json", Output: "stdout"}, cfg)
	})

	t.Run("development defaults to console", func(t *testing.T) {
		cfg := ForEnvironment("development", Config{Level: "debug"})
		assert.Equal(t, Config{Level: "debug", Format: "console", Output: "stdout"}, cfg)
	})

	t.Run("explicit values win", func(t *testing.T) {
		cfg := ForEnvironment("production", Config{Level: "warn", Format: "console", Output: "stderr"})
		assert.Equal(t, Config{Level: "warn", Format: "console", Output: "stderr"}, cfg)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("writes json lines to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "docs.log")

		log, err := New(Config{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)
		log.Info("document saved")
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"document saved"`)
		assert.Contains(t, string(data), `"level":"info"`)
	})

	t.Run("rejects an unknown level", func(t *testing.T) {
		_, err := New(Config{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("reports an unwritable file", func(t *testing.T) {
		_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "docs.log")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "open log file")
	})

	t.Run("debug level enabled", func(t *testing.T) {
		log, err := New(Config{Level: "debug", Format: "console", Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})
}
