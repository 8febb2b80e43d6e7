package config

const (
	defaultDataDir                = "~/.local/share/ripple"
	defaultLogDir                 = "~/.local/share/ripple/logs"
	defaultAPIBind                = "127.0.0.1:7591"
	defaultScrapeBaseURL          = "https://api.scrapecreators.com"
	defaultScrapeRegion           = "US"
	defaultScrapeDiscoveryLimit   = 10
	defaultScrapeTimeoutSeconds   = 30
	defaultLLMBaseURL             = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel               = "google/gemini-3-flash-preview"
	defaultLLMReferer             = "https://github.com/ripple-eng/ripple"
	defaultLLMTitle               = "Ripple Engagement Pipeline"
	defaultLLMTimeoutSeconds      = 60
	defaultUGCBaseURL             = "https://api.ugc.inc"
	defaultUGCTimeoutSeconds      = 30
	defaultSMMBaseURL             = "https://amazingsmm.com/api/v2"
	defaultSMMBoostQuantity       = 100
	defaultSMMTimeoutSeconds      = 30
	defaultConfirmInterval        = 30
	defaultConfirmMaxAttempts     = 240
	defaultBoostVerifyMaxAttempts = 10
	defaultRunLogLimit            = 2000
	defaultLogFormat              = "text"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Scrape: Scrape{
			BaseURL:        defaultScrapeBaseURL,
			Region:         defaultScrapeRegion,
			DiscoveryLimit: defaultScrapeDiscoveryLimit,
			TimeoutSeconds: defaultScrapeTimeoutSeconds,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		UGC: UGC{
			BaseURL:        defaultUGCBaseURL,
			TimeoutSeconds: defaultUGCTimeoutSeconds,
		},
		SMM: SMM{
			BaseURL:        defaultSMMBaseURL,
			BoostQuantity:  defaultSMMBoostQuantity,
			TimeoutSeconds: defaultSMMTimeoutSeconds,
		},
		Pipeline: Pipeline{
			ConfirmInterval:        defaultConfirmInterval,
			ConfirmMaxAttempts:     defaultConfirmMaxAttempts,
			BoostVerifyMaxAttempts: defaultBoostVerifyMaxAttempts,
			RunLogLimit:            defaultRunLogLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
