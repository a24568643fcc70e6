package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("task created", zap.Uint("id", 7))
	require.NoError(t, l.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "task created", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)
}

func TestGormLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	gl := Gorm(l)
	gl.Error(context.Background(), "query failed: %s", "boom")
	gl.Info(context.Background(), "not shown")

	out := buf.String()
	assert.Contains(t, out, "query failed: boom")
	assert.Contains(t, out, `"logger":"gorm"`)
	assert.NotContains(t, out, "not shown")
}

func TestGormTracesAtDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("debug", &buf)
	require.NoError(t, err)

	gl := Gorm(l).LogMode(gormlogger.Info)
	gl.Info(context.Background(), "migrating %s", "tasks")

	assert.Contains(t, buf.String(), "migrating tasks")
}
