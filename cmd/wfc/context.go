package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/asherwoodbury/wikidata-football-cleanup/internal/articles"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/config"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/logging"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/pipeline"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/registry"
	"github.com/asherwoodbury/wikidata-football-cleanup/internal/services/extraction"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		LogFile: filepath.Join(cfg.Paths.LogDir, "wfc.log"),
	})
}

// withStore opens the ledger for the duration of one command.
func (c *commandContext) withStore(fn func(*config.Config, *registry.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := registry.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// withPipeline opens the ledger and article store and assembles the
// post-fetch pipeline around them.
func (c *commandContext) withPipeline(fn func(*config.Config, *registry.Store, *pipeline.Pipeline) error) error {
	return c.withStore(func(cfg *config.Config, store *registry.Store) error {
		articleStore, err := articles.NewStore(cfg.Paths.ArticlesDir)
		if err != nil {
			return err
		}
		logger, err := c.logger()
		if err != nil {
			return err
		}
		p, err := pipeline.New(cfg, store, articleStore, buildExtractor(cfg), logger)
		if err != nil {
			return err
		}
		return fn(cfg, store, p)
	})
}

// buildExtractor prefers the structured infobox parser and falls back to the
// language model when an API key is configured.
func buildExtractor(cfg *config.Config) extraction.Extractor {
	chain := extraction.Chain{extraction.InfoboxExtractor{}}
	if strings.TrimSpace(cfg.Extraction.APIKey) != "" {
		chain = append(chain, &extraction.ModelExtractor{
			Client: extraction.NewClient(extraction.ClientConfig{
				APIKey:         cfg.Extraction.APIKey,
				BaseURL:        cfg.Extraction.BaseURL,
				Model:          cfg.Extraction.Model,
				TimeoutSeconds: cfg.Extraction.TimeoutSeconds,
			}),
		})
	}
	return chain
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
