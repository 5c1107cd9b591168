package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSet(t *testing.T) {
	old := Get()
	defer Set(old)

	var buf bytes.Buffer
	Set(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	Get().Debug("mapped", "size", 153600)
	if !strings.Contains(buf.String(), "size=153600") {
		t.Errorf("expected record in output, got %q", buf.String())
	}

	Set(nil)
	if Get().Enabled(context.Background(), slog.LevelError) {
		t.Error("expected nil to restore the silent logger")
	}
}
