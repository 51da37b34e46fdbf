package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAnalysis()
	c.normalizeProvider()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeChart()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.Driver = strings.Join(strings.Fields(c.Analysis.Driver), " ")
}

func (c *Config) normalizeProvider() {
	c.Provider.BaseURL = strings.TrimSpace(c.Provider.BaseURL)
	if c.Provider.BaseURL == "" {
		if value, ok := os.LookupEnv("QUALIGAP_PROVIDER_URL"); ok && strings.TrimSpace(value) != "" {
			c.Provider.BaseURL = strings.TrimSpace(value)
		} else {
			c.Provider.BaseURL = defaultProviderBaseURL
		}
	}
	c.Provider.BaseURL = strings.TrimRight(c.Provider.BaseURL, "/")
	c.Provider.UserAgent = strings.TrimSpace(c.Provider.UserAgent)
	if c.Provider.UserAgent == "" {
		c.Provider.UserAgent = defaultProviderUserAgent
	}
	if c.Provider.MaxConcurrent == 0 {
		c.Provider.MaxConcurrent = defaultProviderConcurrency
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	if strings.TrimSpace(c.Chart.OutputDir) == "" {
		c.Chart.OutputDir = defaultChartOutputDir
	}
	if c.Chart.OutputDir, err = expandPath(c.Chart.OutputDir); err != nil {
		return fmt.Errorf("chart.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeChart() {
	c.Chart.Title = strings.TrimSpace(c.Chart.Title)
	c.Chart.BarColor = strings.ToLower(strings.TrimSpace(c.Chart.BarColor))
	if c.Chart.BarColor == "" {
		c.Chart.BarColor = defaultChartBarColor
	}
	c.Chart.Background = strings.ToLower(strings.TrimSpace(c.Chart.Background))
	if c.Chart.Background == "" {
		c.Chart.Background = strings.ToLower(defaultChartBackground)
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
