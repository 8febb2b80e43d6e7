package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScrape()
	c.normalizeLLM()
	c.normalizeUGC()
	c.normalizeSMM()
	c.normalizePipeline()
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
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeScrape() {
	if c.Scrape.APIKey == "" {
		if value, ok := os.LookupEnv("SCRAPE_API_KEY"); ok {
			c.Scrape.APIKey = strings.TrimSpace(value)
		}
	}
	c.Scrape.BaseURL = strings.TrimSpace(c.Scrape.BaseURL)
	if c.Scrape.BaseURL == "" {
		c.Scrape.BaseURL = defaultScrapeBaseURL
	}
	c.Scrape.Region = strings.ToUpper(strings.TrimSpace(c.Scrape.Region))
	if c.Scrape.Region == "" {
		c.Scrape.Region = defaultScrapeRegion
	}
	if c.Scrape.DiscoveryLimit <= 0 {
		c.Scrape.DiscoveryLimit = defaultScrapeDiscoveryLimit
	}
	if c.Scrape.TimeoutSeconds <= 0 {
		c.Scrape.TimeoutSeconds = defaultScrapeTimeoutSeconds
	}
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeUGC() {
	if c.UGC.APIKey == "" {
		if value, ok := os.LookupEnv("UGC_API_KEY"); ok {
			c.UGC.APIKey = strings.TrimSpace(value)
		}
	}
	c.UGC.BaseURL = strings.TrimSpace(c.UGC.BaseURL)
	if c.UGC.BaseURL == "" {
		c.UGC.BaseURL = defaultUGCBaseURL
	}
	if c.UGC.TimeoutSeconds <= 0 {
		c.UGC.TimeoutSeconds = defaultUGCTimeoutSeconds
	}
}

func (c *Config) normalizeSMM() {
	if c.SMM.APIKey == "" {
		if value, ok := os.LookupEnv("SMM_API_KEY"); ok {
			c.SMM.APIKey = strings.TrimSpace(value)
		}
	}
	if c.SMM.ServiceID == "" {
		if value, ok := os.LookupEnv("SMM_SERVICE_ID"); ok {
			c.SMM.ServiceID = strings.TrimSpace(value)
		}
	}
	c.SMM.BaseURL = strings.TrimSpace(c.SMM.BaseURL)
	if c.SMM.BaseURL == "" {
		c.SMM.BaseURL = defaultSMMBaseURL
	}
	if c.SMM.BoostQuantity <= 0 {
		c.SMM.BoostQuantity = defaultSMMBoostQuantity
	}
	if c.SMM.TimeoutSeconds <= 0 {
		c.SMM.TimeoutSeconds = defaultSMMTimeoutSeconds
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.ConfirmInterval < 0 {
		c.Pipeline.ConfirmInterval = defaultConfirmInterval
	}
	if c.Pipeline.ConfirmMaxAttempts <= 0 {
		c.Pipeline.ConfirmMaxAttempts = defaultConfirmMaxAttempts
	}
	if c.Pipeline.BoostVerifyMaxAttempts <= 0 {
		c.Pipeline.BoostVerifyMaxAttempts = defaultBoostVerifyMaxAttempts
	}
	if c.Pipeline.RunLogLimit <= 0 {
		c.Pipeline.RunLogLimit = defaultRunLogLimit
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
