package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"qualigap/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Analysis contains the driver and season window being analyzed.
type Analysis struct {
	Driver              string  `toml:"driver"`
	StartYear           int     `toml:"start_year"`
	EndYear             int     `toml:"end_year"`
	TopTracks           int     `toml:"top_tracks"`
	OutlierLimitSeconds float64 `toml:"outlier_limit_seconds"`
}

// Provider contains configuration for the motorsport statistics API.
type Provider struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	MaxConcurrent  int    `toml:"max_concurrent"`
}

// Cache contains configuration for the on-disk response cache.
type Cache struct {
	Enabled bool   `toml:"enabled"` // Default: true
	Dir     string `toml:"dir"`     // Default: ~/.cache/qualigap
}

// Chart contains rendering and display settings for the bar chart.
type Chart struct {
	OutputDir     string  `toml:"output_dir"`
	Title         string  `toml:"title"`
	WidthInches   float64 `toml:"width_inches"` // 0 derives the width from analysis.top_tracks
	HeightInches  float64 `toml:"height_inches"`
	DPI           float64 `toml:"dpi"`
	FontSize      float64 `toml:"font_size"`
	TitleFontSize float64 `toml:"title_font_size"`
	BarColor      string  `toml:"bar_color"`
	Background    string  `toml:"background"`
	Open          bool    `toml:"open"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for qualigap.
//
// Configuration sections by subsystem:
//   - Analysis: target driver, season range, top-N count, outlier limit
//   - Provider: statistics API endpoint, timeouts, retries, fetch fan-out
//   - Cache: on-disk response cache location
//   - Chart: figure size, fonts, colors, output directory, viewer
//   - Logging: log format and level
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Provider Provider `toml:"provider"`
	Cache    Cache    `toml:"cache"`
	Chart    Chart    `toml:"chart"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/qualigap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	// Left empty so normalizeProvider can consult QUALIGAP_PROVIDER_URL when
	// the file does not set base_url.
	cfg.Provider.BaseURL = ""

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("qualigap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and chart output directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Chart.OutputDir}
	if c.Cache.Enabled {
		dirs = append(dirs, c.Cache.Dir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CacheDBPath returns the location of the response cache database.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Cache.Dir, "responses.db")
}

// ChartTitle returns the configured chart title, or the default heading built
// from the analysis window.
func (c *Config) ChartTitle() string {
	if title := strings.TrimSpace(c.Chart.Title); title != "" {
		return title
	}
	return fmt.Sprintf("%s's Top %d Qualifying Tracks (%d - %d)",
		c.Analysis.Driver, c.Analysis.TopTracks, c.Analysis.StartYear, c.Analysis.EndYear)
}

// ChartSizeInches returns the figure size. A zero width scales with the number
// of bars, two inches per bar beyond the first.
func (c *Config) ChartSizeInches() (width, height float64) {
	width = c.Chart.WidthInches
	if width <= 0 {
		width = float64(c.Analysis.TopTracks-1) * 2
		if width < minAutoWidthInches {
			width = minAutoWidthInches
		}
	}
	return width, c.Chart.HeightInches
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "qualigap")
	}
	return defaultCacheDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
