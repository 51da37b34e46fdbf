package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qualigap/internal/respcache"
)

type analyzeJSON struct {
	Driver   string `json:"driver"`
	Sessions int    `json:"sessions"`
	Top      []struct {
		Race           string  `json:"race"`
		Label          string  `json:"label"`
		AverageSeconds float64 `json:"average_seconds"`
		Samples        int     `json:"samples"`
	} `json:"top"`
	Skips []struct {
		Race   string `json:"race"`
		Reason string `json:"reason"`
	} `json:"skips"`
	Chart    string `json:"chart"`
	Provider struct {
		Requests  int `json:"requests"`
		CacheHits int `json:"cache_hits"`
	} `json:"provider"`
}

func decodeAnalyze(t *testing.T, out string) analyzeJSON {
	t.Helper()
	var payload analyzeJSON
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode analyze output: %v\n%s", err, out)
	}
	return payload
}

func TestAnalyzeJSONReport(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"analyze", "--json", "--no-open"}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	payload := decodeAnalyze(t, out)

	var labels []string
	for _, track := range payload.Top {
		labels = append(labels, track.Label)
	}
	if diff := cmp.Diff([]string{"Monaco GP", "Bahrain GP", "Italian GP"}, labels); diff != "" {
		t.Fatalf("top labels mismatch (-want +got):\n%s", diff)
	}
	if payload.Top[0].Samples != 1 || payload.Top[1].Samples != 2 {
		t.Fatalf("unexpected samples: %+v", payload.Top)
	}
	if len(payload.Skips) != 1 || payload.Skips[0].Race != "Solo Grand Prix" {
		t.Fatalf("expected solo skip, got %+v", payload.Skips)
	}
	wantChart := filepath.Join(env.cfg.Chart.OutputDir, "charles_leclerc_2022-2023.png")
	if payload.Chart != wantChart {
		t.Fatalf("chart = %q, want %q", payload.Chart, wantChart)
	}
	if _, err := os.Stat(wantChart); err != nil {
		t.Fatalf("expected chart file: %v", err)
	}
	if payload.Provider.CacheHits != 0 {
		t.Fatalf("expected cold cache, got %+v", payload.Provider)
	}
}

func TestAnalyzeIsIdempotentFromCache(t *testing.T) {
	env := setupCLITestEnv(t)
	chartPath := filepath.Join(t.TempDir(), "gap.png")
	args := []string{"analyze", "--json", "--no-open", "--output", chartPath}

	firstOut, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	firstPNG, err := os.ReadFile(chartPath)
	if err != nil {
		t.Fatal(err)
	}
	requests := env.provider.TotalRequests()

	secondOut, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	secondPNG, err := os.ReadFile(chartPath)
	if err != nil {
		t.Fatal(err)
	}

	if got := env.provider.TotalRequests(); got != requests {
		t.Fatalf("expected second run to be served from cache, requests %d -> %d", requests, got)
	}
	first, second := decodeAnalyze(t, firstOut), decodeAnalyze(t, secondOut)
	if diff := cmp.Diff(first.Top, second.Top); diff != "" {
		t.Fatalf("rankings differ between runs (-first +second):\n%s", diff)
	}
	if second.Provider.Requests != 0 || second.Provider.CacheHits == 0 {
		t.Fatalf("unexpected provider stats on cached run: %+v", second.Provider)
	}
	if !bytes.Equal(firstPNG, secondPNG) {
		t.Fatal("expected identical chart bytes across runs")
	}
}

func TestAnalyzeTableWithFlagOverrides(t *testing.T) {
	env := setupCLITestEnv(t)

	out, stderr, err := runCLI(t, []string{"analyze", "--no-open", "--no-cache", "--top", "1", "--from", "2023", "--to", "2023"}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, stderr)
	}
	requireContains(t, out, "Bahrain Grand Prix")
	requireContains(t, out, "-0.200")
	requireContains(t, out, "Skipped 1 session(s)")
	requireContains(t, out, "charles_leclerc_2023-2023.png")
	requireContains(t, stderr, "no teammate")
	if bytes.Contains([]byte(out), []byte("Italian Grand Prix")) {
		t.Fatalf("expected --top 1 to limit the table:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"analyze", "--no-open", "--no-cache", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("analyze --all: %v", err)
	}
	requireContains(t, out, "Italian Grand Prix")
	requireContains(t, out, "+0.300")
}

func TestAnalyzeUnknownDriverRendersEmptyChart(t *testing.T) {
	env := setupCLITestEnv(t)

	out, stderr, err := runCLI(t, []string{"analyze", "--no-open", "--no-cache", "--driver", "Nobody Atall"}, env.configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "No qualifying gaps found")
	requireContains(t, stderr, "driver not found")
	if _, err := os.Stat(filepath.Join(env.cfg.Chart.OutputDir, "nobody_atall_2022-2023.png")); err != nil {
		t.Fatalf("expected empty chart file: %v", err)
	}
}

func TestAnalyzeRejectsInvalidOverrides(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"analyze", "--no-open", "--top", "0"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for --top 0")
	}
	requireContains(t, err.Error(), "analysis.top_tracks")

	_, _, err = runCLI(t, []string{"analyze", "--no-open", "--from", "2024", "--to", "2022"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for inverted season window")
	}
}

func TestAnalyzeFailsWhileCacheLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	lock, err := respcache.AcquireRunLock(env.cfg.Cache.Dir)
	if err != nil {
		t.Fatalf("AcquireRunLock: %v", err)
	}
	t.Cleanup(func() { _ = lock.Release() })

	_, _, err = runCLI(t, []string{"analyze", "--no-open"}, env.configPath)
	if !errors.Is(err, respcache.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if _, _, err := runCLI(t, []string{"analyze", "--no-open", "--no-cache"}, env.configPath); err != nil {
		t.Fatalf("--no-cache run should not need the lock: %v", err)
	}
}

func TestAnalyzeSurfacesProviderFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.provider.FailPath("/ergast/f1/2022.json", 503)

	_, _, err := runCLI(t, []string{"analyze", "--no-open", "--no-cache"}, env.configPath)
	if err == nil {
		t.Fatal("expected provider failure")
	}
	requireContains(t, err.Error(), "503")
}
