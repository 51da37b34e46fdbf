package qualigap

import (
	"context"
	"errors"
	"strings"
)

// Options selects the driver, season window, and ranking parameters of one
// analysis.
type Options struct {
	Driver              string
	StartYear           int
	EndYear             int
	TopTracks           int
	OutlierLimitSeconds float64
}

// Report is the outcome of an analysis run.
type Report struct {
	Driver              string         `json:"driver"`
	StartYear           int            `json:"start_year"`
	EndYear             int            `json:"end_year"`
	OutlierLimitSeconds float64        `json:"outlier_limit_seconds"`
	Sessions            int            `json:"sessions"`
	Top                 []TrackAverage `json:"top"`
	Tracks              []TrackAverage `json:"tracks"`
	Races               []RaceGaps     `json:"races"`
	Skips               []Skip         `json:"skips"`
}

// Analyze collects gaps for the configured window and reduces them to a
// ranked report.
func Analyze(ctx context.Context, collector *Collector, opts Options) (*Report, error) {
	if collector == nil {
		return nil, errors.New("collector required")
	}
	if strings.TrimSpace(opts.Driver) == "" {
		return nil, errors.New("driver required")
	}
	result, err := collector.Collect(ctx, opts.Driver, opts.StartYear, opts.EndYear)
	if err != nil {
		return nil, err
	}
	return BuildReport(opts, result), nil
}

// BuildReport filters, averages, and ranks a collection result.
func BuildReport(opts Options, result *Result) *Report {
	report := &Report{
		Driver:              opts.Driver,
		StartYear:           opts.StartYear,
		EndYear:             opts.EndYear,
		OutlierLimitSeconds: opts.OutlierLimitSeconds,
		Top:                 []TrackAverage{},
		Tracks:              []TrackAverage{},
		Races:               []RaceGaps{},
		Skips:               []Skip{},
	}
	if result == nil || result.Collection == nil {
		return report
	}
	report.Sessions = result.Sessions
	report.Races = result.Collection.Races()
	if len(result.Skips) > 0 {
		report.Skips = append(report.Skips, result.Skips...)
	}
	averages := Average(FilterOutliers(report.Races, opts.OutlierLimitSeconds))
	report.Tracks = Rank(averages, 0)
	report.Top = Rank(averages, opts.TopTracks)
	return report
}

// Values returns the average gaps of tracks in order.
func Values(tracks []TrackAverage) []float64 {
	out := make([]float64, len(tracks))
	for i, track := range tracks {
		out[i] = track.AverageSeconds
	}
	return out
}

// Labels returns the shortened race names of tracks in order.
func Labels(tracks []TrackAverage) []string {
	out := make([]string, len(tracks))
	for i, track := range tracks {
		out[i] = track.Label
	}
	return out
}
