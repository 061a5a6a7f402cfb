//go:build !integration

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"interkassa-merchant/internal/config"
)

func TestWith_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, config.LogConfig{Level: "info", Format: "json"}, false)

	ctx := WithPaymentNo(WithTraceID(context.Background(), "trace-1"), "ORD-1")
	With(ctx, base).Info().Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["trace_id"] != "trace-1" || line["payment_no"] != "ORD-1" {
		t.Fatalf("missing context fields: %v", line)
	}
	if TraceID(ctx) != "trace-1" {
		t.Fatalf("TraceID: %q", TraceID(ctx))
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LogConfig{Level: "warn", Format: "json"}, false)
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %s", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Fatal("warn should be written")
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		dev  bool
		want string
	}{
		{"300301404317", false, "3003...17"},
		{"short", false, "***"},
		{"300301404317", true, "300301404317"},
	}
	for _, tc := range tests {
		if got := Redact(tc.in, tc.dev); got != tc.want {
			t.Errorf("Redact(%q, %t) = %q, want %q", tc.in, tc.dev, got, tc.want)
		}
	}
}
