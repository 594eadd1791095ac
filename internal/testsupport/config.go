package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ArticlesDir = filepath.Join(base, "articles")
	cfg.Paths.BatchDir = filepath.Join(base, "batches")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	// Tests should never sleep between requests or talk to real endpoints.
	cfg.Wikipedia.RequestDelay = 0
	cfg.Wikipedia.MaxRetries = 1
	cfg.Wikipedia.APIURL = "http://127.0.0.1:0/w/api.php"
	cfg.Wikidata.APIURL = "http://127.0.0.1:0/w/api.php"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithWikipediaURL points the config at a test server's query API.
func WithWikipediaURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Wikipedia.APIURL = url
	}
}

// WithWikidataURL points the config at a test server's entity API.
func WithWikidataURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Wikidata.APIURL = url
	}
}

// WithWorkers overrides the fetch worker count.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Fetch.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
