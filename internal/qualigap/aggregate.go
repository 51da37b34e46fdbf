package qualigap

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// TrackAverage is the mean filtered gap at one race.
type TrackAverage struct {
	Race           string  `json:"race"`
	Label          string  `json:"label"`
	AverageSeconds float64 `json:"average_seconds"`
	Samples        int     `json:"samples"`
	Seasons        []int   `json:"seasons"`
}

// FilterOutliers keeps the gaps whose magnitude is strictly below
// limitSeconds. Races left without gaps are dropped.
func FilterOutliers(races []RaceGaps, limitSeconds float64) []RaceGaps {
	out := make([]RaceGaps, 0, len(races))
	for _, race := range races {
		kept := make([]Gap, 0, len(race.Gaps))
		for _, gap := range race.Gaps {
			if math.Abs(gap.Seconds) < limitSeconds {
				kept = append(kept, gap)
			}
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, RaceGaps{Race: race.Race, Gaps: kept})
	}
	return out
}

// Average computes the mean gap of every race that has gaps.
func Average(races []RaceGaps) []TrackAverage {
	out := make([]TrackAverage, 0, len(races))
	for _, race := range races {
		if len(race.Gaps) == 0 {
			continue
		}
		var sum time.Duration
		seasons := make([]int, 0, len(race.Gaps))
		for _, gap := range race.Gaps {
			sum += gap.Delta
			seasons = append(seasons, gap.Season)
		}
		sort.Ints(seasons)
		out = append(out, TrackAverage{
			Race:           race.Race,
			Label:          ShortenRaceName(race.Race),
			AverageSeconds: durationSeconds(sum) / float64(len(race.Gaps)),
			Samples:        len(race.Gaps),
			Seasons:        seasons,
		})
	}
	return out
}

// Rank orders averages from most negative to most positive, breaking ties by
// race name, and keeps the first top entries. A top of zero or less keeps all.
func Rank(averages []TrackAverage, top int) []TrackAverage {
	ranked := append([]TrackAverage(nil), averages...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].AverageSeconds != ranked[j].AverageSeconds {
			return ranked[i].AverageSeconds < ranked[j].AverageSeconds
		}
		return ranked[i].Race < ranked[j].Race
	})
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

const grandPrixSuffix = "Grand Prix"

// ShortenRaceName turns "Monaco Grand Prix" into "Monaco GP". Names without
// the suffix are returned unchanged.
func ShortenRaceName(name string) string {
	if prefix, ok := strings.CutSuffix(name, grandPrixSuffix); ok {
		return prefix + "GP"
	}
	return name
}

// FormatGap renders seconds with an explicit sign and millisecond precision.
func FormatGap(seconds float64) string {
	rounded := math.Round(seconds*1000) / 1000
	if rounded == 0 {
		return "+0.000"
	}
	return fmt.Sprintf("%+.3f", rounded)
}
