package requestctx

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := WithLogger(context.Background(), logger)
	Logger(ctx).Info("hello")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	if logs.All()[0].Message != "hello" {
		t.Fatalf("unexpected message %q", logs.All()[0].Message)
	}
}

func TestLoggerFallsBackToNoop(t *testing.T) {
	if Logger(context.Background()) != NoopLogger() {
		t.Fatal("bare context should yield the shared no-op logger")
	}
	//nolint:staticcheck // the nil-context guard is part of the contract
	if Logger(nil) != NoopLogger() {
		t.Fatal("nil context should yield the shared no-op logger")
	}
	if Logger(WithLogger(context.Background(), nil)) != NoopLogger() {
		t.Fatal("nil logger should be replaced with the no-op logger")
	}
}

func TestTraceIDWithoutSpan(t *testing.T) {
	if id := TraceID(context.Background()); id != "" {
		t.Fatalf("expected empty trace id, got %q", id)
	}
	if id := TraceID(nil); id != "" { //nolint:staticcheck
		t.Fatalf("expected empty trace id for nil context, got %q", id)
	}
}
