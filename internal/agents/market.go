package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thywilljoshua/pitchdeck/internal/ai"
)

const excerptLength = 500

// MarketResult is a formatted TAM/SAM/SOM analysis plus the start of the text
// it was derived from.
type MarketResult struct {
	Analysis string `json:"market_analysis"`
	Excerpt  string `json:"extracted_text"`
}

// Market sizes the company's market with a web search pass followed by a
// formatting pass.
type Market struct {
	search    ai.Searcher
	formatter ai.Completer
	stage     stage
}

func NewMarket(search ai.Searcher, formatter ai.Completer, log *zap.Logger) *Market {
	return &Market{search: search, formatter: formatter, stage: newStage("market size analysis", log)}
}

// Analyze fails only when the search pass fails. A failed formatting pass
// falls back to the raw analysis under a plain heading.
func (m *Market) Analyze(ctx context.Context, text string) (MarketResult, error) {
	start := time.Now()
	log := m.stage.log.With(zap.String("stage", m.stage.name))
	log.Info("stage started", zap.Int("input_length", len(text)))

	raw, err := m.search.Search(ctx, ai.Prompt{User: fmt.Sprintf(marketResearchUser, text)})
	if err != nil {
		log.Error("stage failed", zap.Error(err))
		return MarketResult{}, fmt.Errorf("%s: %w", m.stage.name, err)
	}
	log.Debug("raw market analysis", zap.Int("output_length", len(raw)))

	formatted, err := m.formatter.Complete(ctx, ai.Prompt{
		System: marketFormatSystem,
		User:   fmt.Sprintf(marketFormatUser, raw),
	})
	if err != nil {
		log.Warn("formatting failed, using raw analysis", zap.Error(err))
		formatted = marketFallbackHeading + raw
	} else {
		formatted = ai.StripCodeFences(formatted)
	}

	log.Info("stage finished",
		zap.Int("output_length", len(formatted)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return MarketResult{Analysis: formatted, Excerpt: Excerpt(text, excerptLength)}, nil
}

// Excerpt returns the first n characters of s, followed by "..." when s is longer.
func Excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
