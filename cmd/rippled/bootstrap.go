package main

import (
	"ripple/internal/ai"
	"ripple/internal/config"
	"ripple/internal/pipeline"
	"ripple/internal/scrape"
	"ripple/internal/smm"
	"ripple/internal/ugc"
)

// buildDeps wires the external service clients the pipeline stages consume.
func buildDeps(cfg *config.Config) pipeline.Deps {
	llm := ai.NewClient(cfg.LLM)
	return pipeline.Deps{
		Source:   scrape.NewClient(cfg.Scrape),
		Scorer:   ai.NewAnalyzer(llm),
		Composer: ai.NewComposer(llm),
		Comments: ugc.NewClient(cfg.UGC),
		Boosts:   smm.NewClient(cfg.SMM),
	}
}
