package testsupport

import (
	"testing"

	"qualigap/internal/config"
	"qualigap/internal/respcache"
)

// MustOpenCache opens the response cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *respcache.Cache {
	t.Helper()

	cache, err := respcache.Open(cfg.CacheDBPath(), nil)
	if err != nil {
		t.Fatalf("respcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Close()
	})
	return cache
}
