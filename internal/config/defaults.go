package config

const (
	defaultDriver              = "Charles Leclerc"
	defaultStartYear           = 2022
	defaultEndYear             = 2024
	defaultTopTracks           = 7
	defaultOutlierLimitSeconds = 2.0
	defaultProviderBaseURL     = "https://api.jolpi.ca/ergast/f1"
	defaultProviderUserAgent   = "qualigap/dev"
	defaultProviderTimeout     = 30
	defaultProviderMaxRetries  = 3
	defaultProviderConcurrency = 1
	defaultCacheEnabled        = true
	defaultCacheDirFallback    = "~/.cache/qualigap"
	defaultChartOutputDir      = "~/.local/share/qualigap/charts"
	defaultChartHeightInches   = 8
	defaultChartDPI            = 100
	defaultChartFontSize       = 20
	defaultChartTitleFontSize  = 23
	defaultChartBarColor       = "maroon"
	defaultChartBackground     = "#1E1E1E"
	defaultChartOpen           = true
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	minAutoWidthInches = 6
	// firstSeason is the first season the provider publishes qualifying data for.
	firstSeason = 1950
	// maxProviderConcurrency keeps fan-out under the provider's burst limit.
	maxProviderConcurrency = 4
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Driver:              defaultDriver,
			StartYear:           defaultStartYear,
			EndYear:             defaultEndYear,
			TopTracks:           defaultTopTracks,
			OutlierLimitSeconds: defaultOutlierLimitSeconds,
		},
		Provider: Provider{
			BaseURL:        defaultProviderBaseURL,
			UserAgent:      defaultProviderUserAgent,
			TimeoutSeconds: defaultProviderTimeout,
			MaxRetries:     defaultProviderMaxRetries,
			MaxConcurrent:  defaultProviderConcurrency,
		},
		Cache: Cache{
			Enabled: defaultCacheEnabled,
			Dir:     defaultCacheDir(),
		},
		Chart: Chart{
			OutputDir:     defaultChartOutputDir,
			HeightInches:  defaultChartHeightInches,
			DPI:           defaultChartDPI,
			FontSize:      defaultChartFontSize,
			TitleFontSize: defaultChartTitleFontSize,
			BarColor:      defaultChartBarColor,
			Background:    defaultChartBackground,
			Open:          defaultChartOpen,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
