package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// capture 将默认日志器重定向到缓冲区，返回恢复函数
func capture(buf *bytes.Buffer) func() {
	prev := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(buf, nil))
	return func() { defaultLogger = prev }
}

func TestFromContext_EnrichesContextKeys(t *testing.T) {
	var buf bytes.Buffer
	defer capture(&buf)()

	ctx := WithContext(context.Background(), RequestIDKey, "req-1")
	ctx = WithContext(ctx, UserIDKey, "user-1")
	ctx = WithContext(ctx, ProjectIDKey, "proj-1")

	Info(ctx, "generation finished")

	out := buf.String()
	for _, want := range []string{
		`"request_id":"req-1"`,
		`"user_id":"user-1"`,
		`"project_id":"proj-1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}

func TestFromContext_NoKeysNoAttrs(t *testing.T) {
	var buf bytes.Buffer
	defer capture(&buf)()

	Info(context.Background(), "plain")

	out := buf.String()
	if strings.Contains(out, "project_id") || strings.Contains(out, "request_id") {
		t.Errorf("unexpected context attrs in log line: %s", out)
	}
}
