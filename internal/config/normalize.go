package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWikipedia()
	c.normalizeExtraction()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArticlesDir) == "" {
		c.Paths.ArticlesDir = defaultArticlesDir
	}
	if c.Paths.ArticlesDir, err = expandPath(c.Paths.ArticlesDir); err != nil {
		return fmt.Errorf("paths.articles_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BatchDir) == "" {
		c.Paths.BatchDir = defaultBatchDir
	}
	if c.Paths.BatchDir, err = expandPath(c.Paths.BatchDir); err != nil {
		return fmt.Errorf("paths.batch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Validation.AliasFile) != "" {
		if c.Validation.AliasFile, err = expandPath(c.Validation.AliasFile); err != nil {
			return fmt.Errorf("validation.alias_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWikipedia() {
	c.Wikipedia.APIURL = strings.TrimSpace(c.Wikipedia.APIURL)
	if c.Wikipedia.APIURL == "" {
		c.Wikipedia.APIURL = defaultWikipediaAPIURL
	}
	c.Wikipedia.UserAgent = strings.TrimSpace(c.Wikipedia.UserAgent)
	if c.Wikipedia.UserAgent == "" {
		c.Wikipedia.UserAgent = defaultUserAgent
	}
	if c.Wikipedia.RequestTimeout <= 0 {
		c.Wikipedia.RequestTimeout = defaultRequestTimeout
	}
	if c.Wikipedia.SearchResultLimit <= 0 {
		c.Wikipedia.SearchResultLimit = defaultSearchResultLimit
	}
	if c.Wikipedia.MinArticleLength <= 0 {
		c.Wikipedia.MinArticleLength = defaultMinArticleLength
	}
	c.Wikidata.APIURL = strings.TrimSpace(c.Wikidata.APIURL)
	if c.Wikidata.APIURL == "" {
		c.Wikidata.APIURL = defaultWikidataAPIURL
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = defaultFetchWorkers
	}
}

func (c *Config) normalizeExtraction() {
	c.Extraction.APIKey = strings.TrimSpace(c.Extraction.APIKey)
	c.Extraction.BaseURL = strings.TrimSpace(c.Extraction.BaseURL)
	if c.Extraction.BaseURL == "" {
		c.Extraction.BaseURL = defaultExtractionBaseURL
	}
	c.Extraction.Model = strings.TrimSpace(c.Extraction.Model)
	if c.Extraction.Model == "" {
		c.Extraction.Model = defaultExtractionModel
	}
	if c.Extraction.TimeoutSeconds <= 0 {
		c.Extraction.TimeoutSeconds = defaultExtractionTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
