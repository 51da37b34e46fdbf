package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"qualigap/internal/config"
	"qualigap/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("hidden at info")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden at info") {
		t.Fatalf("expected debug line to be suppressed, got %q", out)
	}
	if !strings.Contains(out, "INFO visible") {
		t.Fatalf("expected info line, got %q", out)
	}
	if strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
}

func TestConsoleLoggerRendersComponentAndSubject(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "collector")
	logger.Info("gap recorded",
		logging.Int(logging.FieldSeason, 2024),
		logging.String(logging.FieldRace, "Monaco Grand Prix"),
		logging.String("teammate", "Carlos Sainz"),
		logging.Float64("gap_seconds", -0.25))

	out := buf.String()
	for _, want := range []string{
		"[collector] ",
		"2024 Monaco Grand Prix: gap recorded",
		`teammate="Carlos Sainz"`,
		"gap_seconds=-0.25",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestJSONLoggerIncludesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background())
	runID, ok := logging.RunIDFromContext(ctx)
	if !ok || runID == "" {
		t.Fatal("expected run id in context")
	}
	if again := logging.WithRunID(ctx); again != ctx {
		t.Fatal("expected existing run id to be preserved")
	}

	logging.WithContext(ctx, logger).Info("run started")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload["run_id"] != runID {
		t.Fatalf("expected run_id %q, got %v", runID, payload["run_id"])
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestJSONLoggerRendersDurations(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("analysis complete", logging.Duration("elapsed", 1500*time.Millisecond+400*time.Microsecond))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["elapsed"] != "1.5s" {
		t.Fatalf("expected elapsed rendered as 1.5s, got %v", payload["elapsed"])
	}
	ts, _ := payload["ts"].(string)
	if _, err := time.Parse("2006-01-02T15:04:05.000Z07:00", ts); err != nil {
		t.Fatalf("expected millisecond UTC timestamp, got %q: %v", ts, err)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "teammate missing", "teammate_missing",
		logging.String(logging.FieldImpact, "race skipped for this season"),
		logging.Error(errors.New("no teammate")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldEventType] != "teammate_missing" {
		t.Fatalf("unexpected event type: %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldErrorHint] == nil {
		t.Fatal("expected default error hint")
	}
	if payload[logging.FieldImpact] != "race skipped for this season" {
		t.Fatalf("expected caller impact preserved, got %v", payload[logging.FieldImpact])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 8) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.NewComponentLogger(nil, "cache").Info("dropped")
}
