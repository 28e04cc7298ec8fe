package main

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillnote/quillnote/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestInitLogger_Format(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := initLogger(&config.Config{LogFormat: "json", LogLevel: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)

	buf.Reset()
	logger = initLogger(&config.Config{LogFormat: "text", LogLevel: "info"}, &buf)
	logger.Info("plain")
	assert.True(t, strings.Contains(buf.String(), "msg=plain"), buf.String())
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"with password", "postgres://app:secret@db:5432/quillnote", "postgres://app@db:5432/quillnote"},
		{"password only", "redis://:secret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"no credentials", "redis://cache:6379", "redis://cache:6379"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redactURL(tt.in))
		})
	}
}

func TestSanitizeError(t *testing.T) {
	dbURL := "postgres://app:secret@db:5432/quillnote"
	err := errors.New("connect " + dbURL + " failed: password=hunter2 rejected")

	got := sanitizeError(err, dbURL, "")

	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "hunter2")
	assert.Contains(t, got, "postgres://app@db:5432/quillnote")
	assert.Contains(t, got, "password=redacted")
	assert.Empty(t, sanitizeError(nil))
}
