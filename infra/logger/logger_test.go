package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsBackend(t *testing.T) {
	t.Setenv("LOG_BACKEND", "logrus")
	_, ok := New("test").(*LogrusLogger)
	assert.True(t, ok)

	t.Setenv("LOG_BACKEND", "")
	_, ok = New("test").(*ZerologLogger)
	assert.True(t, ok)
}

func TestZerologFields(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	l := newZerolog(&buf, "aggregator")
	l.Debugw("record skipped", map[string]any{"company": "Acme", "reason": "missing-fields"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "aggregator", line["component"])
	assert.Equal(t, "Acme", line["company"])
	assert.Equal(t, "missing-fields", line["reason"])
	assert.Equal(t, "debug", line["level"])
}

func TestZerologLevelFilter(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	var buf bytes.Buffer
	l := newZerolog(&buf, "x")
	l.Infof("hidden %d", 1)
	assert.Zero(t, buf.Len())
	l.Warnf("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	l := newLogrus(&buf, "report", false)
	l.Debugw("cache miss", map[string]any{"key": "timeline:v1:2025:8"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "report", line["component"])
	assert.Equal(t, "timeline:v1:2025:8", line["key"])
	assert.Equal(t, "cache miss", line["msg"])
}

func TestLogrusDefaultLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	l := newLogrus(&buf, "report", true)
	l.Debugf("hidden")
	assert.Zero(t, buf.Len())
	l.Errorf("boom %s", "now")
	assert.Contains(t, buf.String(), "boom now")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugf("x")
	l.Debugw("x", nil)
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
}
