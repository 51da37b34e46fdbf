package testsupport

import (
	"path/filepath"
	"testing"

	"qualigap/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options. Charts are never
// opened from tests.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Cache.Dir = filepath.Join(base, "cache")
	cfgVal.Chart.OutputDir = filepath.Join(base, "charts")
	cfgVal.Chart.Open = false
	cfgVal.Provider.MaxRetries = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProvider points the test config at a fake provider.
func WithProvider(provider *FakeProvider) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Provider.BaseURL = provider.URL()
	}
}

// WithAnalysis overrides the driver and season window.
func WithAnalysis(driver string, start, end, top int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.Driver = driver
		b.cfg.Analysis.StartYear = start
		b.cfg.Analysis.EndYear = end
		b.cfg.Analysis.TopTracks = top
	}
}

// WithoutCache disables the response cache.
func WithoutCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Cache.Dir)
}
