package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWikipedia(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWikipedia() error {
	if c.Wikipedia.RequestDelay < 0 {
		return errors.New("wikipedia.request_delay must not be negative")
	}
	if c.Wikipedia.MaxRetries < 0 {
		return errors.New("wikipedia.max_retries must not be negative")
	}
	if err := ensurePositiveMap(map[string]int{
		"wikipedia.request_timeout":     c.Wikipedia.RequestTimeout,
		"wikipedia.search_result_limit": c.Wikipedia.SearchResultLimit,
		"wikipedia.min_article_length":  c.Wikipedia.MinArticleLength,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Workers <= 0 {
		return errors.New("fetch.workers must be positive")
	}
	// A large pool with no delay hammers the API; cap it conservatively.
	if c.Fetch.Workers > 32 {
		return errors.New("fetch.workers must be 32 or fewer")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
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
