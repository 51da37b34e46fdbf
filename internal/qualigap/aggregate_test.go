package qualigap

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func gapsOf(season int, deltas ...time.Duration) []Gap {
	out := make([]Gap, 0, len(deltas))
	for i, d := range deltas {
		out = append(out, NewGap(season+i, 1, "Mate", time.Minute+d, time.Minute))
	}
	return out
}

func TestFilterOutliersKeepsStrictlyBelowLimit(t *testing.T) {
	races := []RaceGaps{
		{Race: "Bahrain Grand Prix", Gaps: gapsOf(2022, 500*time.Millisecond, 2500*time.Millisecond, -1900*time.Millisecond)},
		{Race: "Monaco Grand Prix", Gaps: gapsOf(2022, 2000*time.Millisecond, -2000*time.Millisecond)},
		{Race: "Miami Grand Prix", Gaps: []Gap{}},
	}
	filtered := FilterOutliers(races, 2)
	if len(filtered) != 1 {
		t.Fatalf("expected one surviving race, got %d", len(filtered))
	}
	var got []float64
	for _, gap := range filtered[0].Gaps {
		got = append(got, gap.Seconds)
	}
	if diff := cmp.Diff([]float64{0.5, -1.9}, got); diff != "" {
		t.Fatalf("filtered gaps mismatch (-want +got):\n%s", diff)
	}
}

func TestAverageIsMeanOfGaps(t *testing.T) {
	averages := Average([]RaceGaps{
		{Race: "Italian Grand Prix", Gaps: gapsOf(2023, 300*time.Millisecond, -100*time.Millisecond)},
		{Race: "Empty", Gaps: nil},
	})
	if len(averages) != 1 {
		t.Fatalf("expected one average, got %d", len(averages))
	}
	avg := averages[0]
	if math.Abs(avg.AverageSeconds-0.1) > 1e-9 {
		t.Fatalf("average = %v, want 0.1", avg.AverageSeconds)
	}
	if avg.Samples != 2 || avg.Label != "Italian GP" {
		t.Fatalf("unexpected average: %+v", avg)
	}
	if diff := cmp.Diff([]int{2023, 2024}, avg.Seasons); diff != "" {
		t.Fatalf("seasons mismatch (-want +got):\n%s", diff)
	}
}

func TestRankSelectsMostNegative(t *testing.T) {
	averages := []TrackAverage{
		{Race: "A", AverageSeconds: 0.2},
		{Race: "B", AverageSeconds: -0.5},
		{Race: "C", AverageSeconds: 0.1},
		{Race: "D", AverageSeconds: -0.3},
	}
	ranked := Rank(averages, 2)
	want := []TrackAverage{{Race: "B", AverageSeconds: -0.5}, {Race: "D", AverageSeconds: -0.3}}
	if diff := cmp.Diff(want, ranked); diff != "" {
		t.Fatalf("rank mismatch (-want +got):\n%s", diff)
	}
	if averages[0].Race != "A" {
		t.Fatal("Rank must not reorder its input")
	}
	if got := Rank(averages, 10); len(got) != 4 {
		t.Fatalf("expected all four when top exceeds input, got %d", len(got))
	}
	if got := Rank(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty ranking, got %v", got)
	}
}

func TestRankBreaksTiesByName(t *testing.T) {
	ranked := Rank([]TrackAverage{
		{Race: "Zandvoort", AverageSeconds: -0.2},
		{Race: "Austin", AverageSeconds: -0.2},
	}, 0)
	if ranked[0].Race != "Austin" || ranked[1].Race != "Zandvoort" {
		t.Fatalf("unexpected tie order: %+v", ranked)
	}
}

func TestShortenRaceName(t *testing.T) {
	cases := map[string]string{
		"Monaco Grand Prix":        "Monaco GP",
		"São Paulo Grand Prix":     "São Paulo GP",
		"Grand Prix":               "GP",
		"70th Anniversary":         "70th Anniversary",
		"Grand Prix of Long Beach": "Grand Prix of Long Beach",
	}
	for in, want := range cases {
		if got := ShortenRaceName(in); got != want {
			t.Errorf("ShortenRaceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatGap(t *testing.T) {
	cases := map[float64]string{
		0.123:   "+0.123",
		-0.456:  "-0.456",
		0:       "+0.000",
		-0.0001: "+0.000",
		1.5:     "+1.500",
	}
	for in, want := range cases {
		if got := FormatGap(in); got != want {
			t.Errorf("FormatGap(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNewGapTruncatesToMillisecond(t *testing.T) {
	gap := NewGap(2024, 3, "Mate", 90*time.Second+250*time.Millisecond+999*time.Microsecond, 90*time.Second)
	if gap.Delta != 250*time.Millisecond || gap.Seconds != 0.25 {
		t.Fatalf("unexpected gap: %+v", gap)
	}
}

func TestCollectionKeepsInsertionOrder(t *testing.T) {
	c := NewCollection()
	c.Ensure("Bahrain Grand Prix")
	c.Ensure("Saudi Arabian Grand Prix")
	c.Append("Bahrain Grand Prix", NewGap(2022, 1, "Mate", time.Second, 2*time.Second))
	c.Ensure("Bahrain Grand Prix")
	c.Append("Australian Grand Prix", NewGap(2022, 3, "Mate", time.Second, time.Second))

	var names []string
	for _, race := range c.Races() {
		names = append(names, race.Race)
	}
	if diff := cmp.Diff([]string{"Bahrain Grand Prix", "Saudi Arabian Grand Prix", "Australian Grand Prix"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	gaps, ok := c.Gaps("Saudi Arabian Grand Prix")
	if !ok || gaps == nil || len(gaps) != 0 {
		t.Fatalf("expected explicit empty list, got %v ok=%v", gaps, ok)
	}
	if _, ok := c.Gaps("Unknown"); ok {
		t.Fatal("expected unknown race to be absent")
	}
}

func TestBuildReportWithNoSessions(t *testing.T) {
	c := NewCollection()
	c.Ensure("Monaco Grand Prix")
	report := BuildReport(Options{Driver: "X", TopTracks: 7, OutlierLimitSeconds: 2}, &Result{Collection: c})
	if len(report.Top) != 0 || len(report.Tracks) != 0 {
		t.Fatalf("expected empty ranking, got %+v", report)
	}
	if len(report.Races) != 1 {
		t.Fatalf("expected registered race to be reported, got %+v", report.Races)
	}
}
