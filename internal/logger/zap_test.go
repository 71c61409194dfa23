package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "debug", Format: "json", Output: path}, SentryConfig{})
	require.NoError(t, err)

	log.Info("cache hit", zap.String("key", "search:python:abc"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"cache hit"`)
	assert.Contains(t, string(data), `"key":"search:python:abc"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Level: "verbose", Format: "json", Output: path}, SentryConfig{})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_SentryWithoutDSNStaysOff(t *testing.T) {
	log, err := New(Config{Level: "info", Output: "stderr"}, SentryConfig{Enabled: true})
	require.NoError(t, err)

	assert.False(t, log.sentryEnabled)
}

func TestNew_BadOutputPath(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")}, SentryConfig{})
	assert.Error(t, err)
}

func TestFieldsToMap(t *testing.T) {
	m := fieldsToMap([]zapcore.Field{
		zap.String("key", "video_detail:v1"),
		zap.Int("count", 3),
		zap.Float64("score", 6.5),
		zap.Bool("fallback", true),
		zap.Duration("ttl", time.Hour),
		zap.Error(errors.New("boom")),
	})

	assert.Equal(t, "video_detail:v1", m["key"])
	assert.Equal(t, int64(3), m["count"])
	assert.Equal(t, 6.5, m["score"])
	assert.Equal(t, true, m["fallback"])
	assert.Equal(t, time.Hour, m["ttl"])
	assert.Equal(t, "boom", m["error"])
}

func TestTagsFrom(t *testing.T) {
	tags := tagsFrom(map[string]any{
		"request_id": "req-1",
		"endpoint":   "/videos",
		"namespace":  "",
		"key":        "search:python:abc",
		"count":      int64(3),
	})

	assert.Equal(t, map[string]string{"request_id": "req-1", "endpoint": "/videos"}, tags)
}

func TestNew_ServiceField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(Config{Service: "video-discovery-service", Level: "info", Output: path}, SentryConfig{})
	require.NoError(t, err)

	log.Info("search completed", zap.Duration("duration", 1500*time.Millisecond))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"video-discovery-service"`)
	assert.Contains(t, string(data), `"duration":"1.5s"`)
}

func TestSentryCore_OnlyErrors(t *testing.T) {
	core := &sentryCore{LevelEnabler: zapcore.ErrorLevel}

	assert.False(t, core.Enabled(zapcore.WarnLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	child := core.With([]zapcore.Field{zap.String("namespace", "video_detail")}).(*sentryCore)
	assert.Len(t, child.fields, 1)
	assert.Empty(t, core.fields, "With must not mutate the parent")
}

func TestZapLevelToSentry(t *testing.T) {
	assert.Equal(t, "error", string(zapLevelToSentry(zapcore.ErrorLevel)))
	assert.Equal(t, "warning", string(zapLevelToSentry(zapcore.WarnLevel)))
	assert.Equal(t, "fatal", string(zapLevelToSentry(zapcore.PanicLevel)))
}
