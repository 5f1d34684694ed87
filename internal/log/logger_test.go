package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithComponentReplacesAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf})
	l.WithComponent(ComponentHTTP).Info("hello")

	line := buf.String()
	if strings.Count(line, "component=") != 1 || !strings.Contains(line, "component=http") {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf})

	h := Middleware(l)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req_1") {
		t.Fatalf("request id missing: %q", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}

func TestLogFieldsWithError(t *testing.T) {
	if _, ok := NewFields().WithError(nil)[FieldError]; ok {
		t.Fatalf("nil error should not add a field")
	}

	f := NewFields().WithError(errors.New("boom")).WithSession("s1").WithOperation(OpExport)
	if f[FieldError] != "boom" || f[FieldSessionID] != "s1" || f[FieldOperation] != OpExport {
		t.Fatalf("unexpected fields %v", f)
	}

	var buf bytes.Buffer
	New(Config{Output: &buf}).Error("failed", f.ToSlice()...)
	if !strings.Contains(buf.String(), "error=boom") {
		t.Fatalf("error missing from %q", buf.String())
	}
}
