package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateChart(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if strings.TrimSpace(c.Analysis.Driver) == "" {
		return errors.New("analysis.driver must be set")
	}
	if c.Analysis.StartYear < firstSeason {
		return fmt.Errorf("analysis.start_year must be %d or later", firstSeason)
	}
	if c.Analysis.EndYear < c.Analysis.StartYear {
		return errors.New("analysis.end_year must not be before analysis.start_year")
	}
	if c.Analysis.TopTracks <= 0 {
		return errors.New("analysis.top_tracks must be positive")
	}
	if c.Analysis.OutlierLimitSeconds <= 0 {
		return errors.New("analysis.outlier_limit_seconds must be positive")
	}
	return nil
}

func (c *Config) validateProvider() error {
	parsed, err := url.Parse(c.Provider.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("provider.base_url %q must be an absolute URL", c.Provider.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"provider.timeout_seconds": c.Provider.TimeoutSeconds,
		"provider.max_concurrent":  c.Provider.MaxConcurrent,
	}); err != nil {
		return err
	}
	if c.Provider.MaxConcurrent > maxProviderConcurrency {
		return fmt.Errorf("provider.max_concurrent must be at most %d", maxProviderConcurrency)
	}
	if c.Provider.MaxRetries < 0 {
		return errors.New("provider.max_retries must not be negative")
	}
	return nil
}

func (c *Config) validateChart() error {
	if c.Chart.WidthInches < 0 {
		return errors.New("chart.width_inches must not be negative")
	}
	floats := map[string]float64{
		"chart.height_inches":   c.Chart.HeightInches,
		"chart.dpi":             c.Chart.DPI,
		"chart.font_size":       c.Chart.FontSize,
		"chart.title_font_size": c.Chart.TitleFontSize,
	}
	for key, value := range floats {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
