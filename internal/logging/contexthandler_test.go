package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/fitplan/internal/logging"
)

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelDebug, logging.FormatText, nil)

	ctx := logging.WithAttrs(t.Context(), slog.String("trace_id", "abc"))
	sibling := logging.WithAttrs(ctx, slog.String("uri", "/api/healthy"))
	other := logging.WithAttrs(ctx, slog.String("uri", "/api/generate-plan"))

	logger.LogAttrs(sibling, slog.LevelInfo, "first")
	logger.LogAttrs(other, slog.LevelInfo, "second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 { //nolint:mnd // two log calls
		t.Fatalf("got %d log lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "trace_id=abc") || !strings.Contains(lines[0], "uri=/api/healthy") {
		t.Errorf("first line missing context attributes: %s", lines[0])
	}
	if strings.Contains(lines[1], "/api/healthy") || !strings.Contains(lines[1], "uri=/api/generate-plan") {
		t.Errorf("second line leaked sibling attributes: %s", lines[1])
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON, nil)

	logger.LogAttrs(context.Background(), slog.LevelDebug, "dropped")
	logger.LogAttrs(logging.WithAttrs(context.Background(), slog.Int("status_code", 200)), slog.LevelInfo, "kept")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
	}
	if got, want := record["msg"], "kept"; got != want {
		t.Errorf("msg = %v, want %v", got, want)
	}
	if got, want := record["status_code"], float64(200); got != want {
		t.Errorf("status_code = %v, want %v", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "chatty", want: slog.LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
