package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/terrainpath/internal/metrics"
)

// install makes l the global logger for the rest of the test.
func install(t *testing.T, l *zap.Logger) {
	t.Helper()
	Set(l)
	t.Cleanup(func() { Set(nil) })
}

func TestSetNilIsNop(t *testing.T) {
	install(t, nil)
	for _, lvl := range []zapcore.Level{zapcore.DebugLevel, zapcore.ErrorLevel, zapcore.DPanicLevel} {
		assert.False(t, Log.Core().Enabled(lvl), "level %s", lvl)
	}

	// Diagnostics are still counted without a logger and never panic.
	before := testutil.ToFloat64(metrics.Diagnostics.WithLabelValues("nop_cap"))
	assert.NotPanics(t, func() { Diagnostic("nop_cap", "cap reached") })
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Diagnostics.WithLabelValues("nop_cap")))
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Console: &buf})
	require.NoError(t, err)
	install(t, l)

	Info("Loaded scene")
	Warn("Walker stopped", zap.Int("steps", 3))
	Sync()

	out := buf.String()
	assert.NotContains(t, out, "Loaded scene")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "Walker stopped")
	assert.Contains(t, out, `"steps": 3`)
	assert.Contains(t, out, "logger_test.go", "caller should be the test, not the helper")
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled zapcore.Level
		below   zapcore.Level
	}{
		{"", zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(Options{Level: tt.level, Console: &bytes.Buffer{}})
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.below))
		})
	}

	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWithoutSinks(t *testing.T) {
	l, err := New(Options{Level: "debug"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terrainpath.log")
	cfg := DefaultFileConfig(path)
	cfg.Compress = false
	l, err := New(Options{Level: "debug", File: cfg})
	require.NoError(t, err)
	install(t, l)

	Debug("Constructed path", zap.String("mode", "flying"))
	Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "DEBUG")
	assert.Contains(t, string(content), "Constructed path")
	assert.Contains(t, string(content), "flying")
}

func TestDefaultFileConfig(t *testing.T) {
	assert.Equal(t, FileConfig{
		Path:       "/tmp/terrainpath.log",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}, DefaultFileConfig("/tmp/terrainpath.log"))
}

func TestDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "error", Console: &buf})
	require.NoError(t, err)
	install(t, l)

	before := testutil.ToFloat64(metrics.Diagnostics.WithLabelValues("test_cap"))
	Diagnostic("test_cap", "iteration cap reached", zap.Int("limit", 64))
	Sync()

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Diagnostics.WithLabelValues("test_cap")))
	out := buf.String()
	assert.Contains(t, out, "DPANIC")
	assert.Contains(t, out, "iteration cap reached")
	assert.Contains(t, out, `"diagnostic": "test_cap"`)
}
