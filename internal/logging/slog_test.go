package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "path", "/login")
	log.Info(ctx, "inf", "role", "Taxpayer")
	log.Warn(ctx, "wrn", "status", 401)
	log.Error(ctx, "err", "request_id", "abc")

	out := buf.String()
	for _, s := range []string{
		"level=DEBUG", "msg=dbg", "path=/login",
		"level=INFO", "msg=inf", "role=Taxpayer",
		"level=WARN", "msg=wrn", "status=401",
		"level=ERROR", "msg=err", "request_id=abc",
	} {
		assert.Contains(t, out, s)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "router").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "component=router")
	assert.Contains(t, out, "k=v")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewFileLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxdesk.log")

	log, closer, err := NewFileLogger(path, "debug")
	require.NoError(t, err)
	log.Debug(context.Background(), "session initialized", "user", "a@b.tz")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "session initialized")
	assert.Contains(t, string(b), "user=a@b.tz")
}

func TestNewFileLogger_EmptyPathDiscards(t *testing.T) {
	log, closer, err := NewFileLogger("", "info")
	require.NoError(t, err)
	assert.NotPanics(t, func() { log.Info(context.Background(), "nowhere") })
	assert.NoError(t, closer.Close())
}

func TestNewFileLogger_BadLevel(t *testing.T) {
	_, _, err := NewFileLogger("", "chatty")
	assert.Error(t, err)
}
