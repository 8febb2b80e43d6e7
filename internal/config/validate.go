package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScrape(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScrape() error {
	if c.Scrape.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/ripple/config.toml"
		}
		return fmt.Errorf("scrape.api_key is required. Set SCRAPE_API_KEY env var or edit %s (create with 'ripple config init')", defaultPath)
	}
	if c.Scrape.DiscoveryLimit > 100 {
		return errors.New("scrape.discovery_limit must be 100 or less")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.ConfirmMaxAttempts > 10000 {
		return errors.New("pipeline.confirm_max_attempts must be 10000 or less")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
