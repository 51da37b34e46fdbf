package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"qualigap/internal/chart"
	"qualigap/internal/config"
	"qualigap/internal/jolpica"
	"qualigap/internal/logging"
	"qualigap/internal/qualigap"
	"qualigap/internal/respcache"
	"qualigap/internal/textutil"
)

type analyzeFlags struct {
	driver  string
	from    int
	to      int
	top     int
	outlier float64
	output  string
	noOpen  bool
	all     bool
	json    bool
	noCache bool
}

type analyzeOutput struct {
	*qualigap.Report
	Chart    string        `json:"chart"`
	Provider jolpica.Stats `json:"provider"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rank the tracks where a driver out-qualifies their teammate",
		Long: "Fetch qualifying results for every race in the season window, compute the\n" +
			"driver's fastest-lap gap to their teammate, drop outliers, average per track,\n" +
			"and chart the tracks with the most negative average gap.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			run, err := applyAnalyzeFlags(cmd, *base, flags)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return runAnalyze(cmd, run, flags, logger)
		},
	}

	cmd.Flags().StringVar(&flags.driver, "driver", "", "Driver full name (overrides analysis.driver)")
	cmd.Flags().IntVar(&flags.from, "from", 0, "First season (overrides analysis.start_year)")
	cmd.Flags().IntVar(&flags.to, "to", 0, "Last season, inclusive (overrides analysis.end_year)")
	cmd.Flags().IntVar(&flags.top, "top", 0, "Number of tracks to rank (overrides analysis.top_tracks)")
	cmd.Flags().Float64Var(&flags.outlier, "outlier", 0, "Outlier limit in seconds (overrides analysis.outlier_limit_seconds)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Chart PNG path (default chart.output_dir/<driver>_<from>-<to>.png)")
	cmd.Flags().BoolVar(&flags.noOpen, "no-open", false, "Do not open the chart in the default viewer")
	cmd.Flags().BoolVar(&flags.all, "all", false, "List every surviving track, not only the top N")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Emit the full report as JSON")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Bypass the response cache for this run")
	return cmd
}

// applyAnalyzeFlags layers explicitly set flags over a copy of the loaded
// configuration and revalidates the result.
func applyAnalyzeFlags(cmd *cobra.Command, cfg config.Config, flags analyzeFlags) (*config.Config, error) {
	changed := cmd.Flags().Changed
	if changed("driver") {
		cfg.Analysis.Driver = strings.Join(strings.Fields(flags.driver), " ")
	}
	if changed("from") {
		cfg.Analysis.StartYear = flags.from
	}
	if changed("to") {
		cfg.Analysis.EndYear = flags.to
	}
	if changed("top") {
		cfg.Analysis.TopTracks = flags.top
	}
	if changed("outlier") {
		cfg.Analysis.OutlierLimitSeconds = flags.outlier
	}
	if flags.noCache {
		cfg.Cache.Enabled = false
	}
	if flags.noOpen {
		cfg.Chart.Open = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis options: %w", err)
	}
	return &cfg, nil
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, flags analyzeFlags, baseLogger *slog.Logger) error {
	runCtx := logging.WithRunID(cmd.Context())
	logger := logging.WithContext(runCtx, baseLogger).With(logging.String(logging.FieldDriver, cfg.Analysis.Driver))

	clientOpts := []jolpica.Option{
		jolpica.WithTimeout(time.Duration(cfg.Provider.TimeoutSeconds) * time.Second),
		jolpica.WithUserAgent(cfg.Provider.UserAgent),
		jolpica.WithRetries(cfg.Provider.MaxRetries, 0),
		jolpica.WithLogger(logger),
	}
	if cfg.Cache.Enabled {
		lock, err := respcache.AcquireRunLock(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		defer func() { _ = lock.Release() }()
		logger.Debug("run lock held", logging.String("lock", lock.Path()))

		store, err := respcache.Open(cfg.CacheDBPath(), logger)
		if err != nil {
			return fmt.Errorf("open response cache: %w", err)
		}
		defer store.Close()
		clientOpts = append(clientOpts, jolpica.WithCache(store))
	}
	client, err := jolpica.New(cfg.Provider.BaseURL, clientOpts...)
	if err != nil {
		return err
	}

	started := time.Now()
	logger.Info("analysis started",
		logging.Int("start_year", cfg.Analysis.StartYear),
		logging.Int("end_year", cfg.Analysis.EndYear),
		logging.Int("top_tracks", cfg.Analysis.TopTracks))

	collector := qualigap.NewCollector(client, logger, cfg.Provider.MaxConcurrent)
	report, err := qualigap.Analyze(runCtx, collector, qualigap.Options{
		Driver:              cfg.Analysis.Driver,
		StartYear:           cfg.Analysis.StartYear,
		EndYear:             cfg.Analysis.EndYear,
		TopTracks:           cfg.Analysis.TopTracks,
		OutlierLimitSeconds: cfg.Analysis.OutlierLimitSeconds,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", cfg.Analysis.Driver, err)
	}
	if report.Sessions == 0 {
		logging.WarnWithContext(logger, "driver not found in any qualifying session", "driver_absent",
			logging.String(logging.FieldErrorHint, "check the spelling of the driver's full name and the season window"),
			logging.String(logging.FieldImpact, "chart will have no bars"))
	}

	chartPath, err := chartOutputPath(cfg, flags.output)
	if err != nil {
		return err
	}
	width, height := cfg.ChartSizeInches()
	style := chart.Style{
		WidthInches:   width,
		HeightInches:  height,
		DPI:           cfg.Chart.DPI,
		FontSize:      cfg.Chart.FontSize,
		TitleFontSize: cfg.Chart.TitleFontSize,
		BarColor:      cfg.Chart.BarColor,
		Background:    cfg.Chart.Background,
	}
	titled := *cfg
	titled.Analysis.Driver = textutil.DisplayName(cfg.Analysis.Driver)
	data := chart.Data{
		Title:  titled.ChartTitle(),
		YLabel: chart.DefaultYLabel,
		Labels: qualigap.Labels(report.Top),
		Values: qualigap.Values(report.Top),
	}
	if err := chart.RenderFile(chartPath, data, style); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	stats := client.Stats()
	logger.Info("analysis complete",
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("sessions", report.Sessions),
		logging.Int("tracks", len(report.Tracks)),
		logging.Int("skips", len(report.Skips)),
		logging.Int("requests", int(stats.Requests)),
		logging.Int("cache_hits", int(stats.CacheHits)),
		logging.String("chart", chartPath))

	out := cmd.OutOrStdout()
	if flags.json {
		if err := writeJSON(cmd.OutOrStdout(), analyzeOutput{Report: report, Chart: chartPath, Provider: stats}); err != nil {
			return err
		}
	} else {
		tracks := report.Top
		if flags.all {
			tracks = report.Tracks
		}
		printReport(out, report, tracks, isTerminal(out))
		fmt.Fprintf(out, "Chart written to %s\n", chartPath)
	}

	if cfg.Chart.Open && isTerminal(out) {
		if err := chart.Open(chartPath); err != nil {
			logging.WarnWithContext(logger, "chart viewer unavailable", "chart_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "open the PNG manually or pass --no-open"),
				logging.String(logging.FieldImpact, "chart was written but not displayed"))
		}
	}
	return nil
}

func chartOutputPath(cfg *config.Config, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		path, err := config.ExpandPath(override)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		return path, nil
	}
	name := chart.FileName(cfg.Analysis.Driver, cfg.Analysis.StartYear, cfg.Analysis.EndYear)
	return filepath.Join(cfg.Chart.OutputDir, name), nil
}

func printReport(out io.Writer, report *qualigap.Report, tracks []qualigap.TrackAverage, colorize bool) {
	fmt.Fprintf(out, "%s vs teammate, %d-%d (outliers >= %gs dropped)\n",
		report.Driver, report.StartYear, report.EndYear, report.OutlierLimitSeconds)
	if len(tracks) == 0 {
		fmt.Fprintln(out, "No qualifying gaps found")
	} else {
		rows := make([][]string, 0, len(tracks))
		for i, track := range tracks {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				track.Race,
				colorGap(qualigap.FormatGap(track.AverageSeconds), track.AverageSeconds, colorize),
				strconv.Itoa(track.Samples),
				joinSeasons(track.Seasons),
			})
		}
		fmt.Fprintln(out, renderTable(rankingColumns, rows))
	}
	if len(report.Skips) > 0 {
		fmt.Fprintf(out, "Skipped %d session(s):\n", len(report.Skips))
		for _, skip := range report.Skips {
			fmt.Fprintf(out, "  %d %s: %s\n", skip.Season, skip.Race, skip.Reason)
		}
	}
}

func joinSeasons(seasons []int) string {
	parts := make([]string, len(seasons))
	for i, season := range seasons {
		parts[i] = strconv.Itoa(season)
	}
	return strings.Join(parts, ", ")
}
