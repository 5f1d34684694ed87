package cli

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	applog "advisor/internal/log"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level   string
		debugOn bool
		infoOn  bool
	}{
		{level: "debug", debugOn: true, infoOn: true},
		{level: "info", debugOn: false, infoOn: true},
		{level: "error", debugOn: false, infoOn: false},
		{level: "", debugOn: false, infoOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := SetupLogger(tt.level)
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugOn)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.infoOn {
				t.Errorf("info enabled = %v, want %v", got, tt.infoOn)
			}
			if logger.Component() != applog.ComponentApp {
				t.Errorf("component = %q, want %q", logger.Component(), applog.ComponentApp)
			}
		})
	}
}

func TestSignalContextFollowsParent(t *testing.T) {
	logger := applog.New(applog.Config{Output: io.Discard})
	parent, cancelParent := context.WithCancel(context.Background())

	ctx, cancel := SignalContext(parent, logger)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context done before parent was cancelled")
	default:
	}

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with parent")
	}
}

func TestSignalContextCancel(t *testing.T) {
	logger := applog.New(applog.Config{Output: io.Discard})
	ctx, cancel := SignalContext(context.Background(), logger)
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}
