// Package agents runs the analysis stages applied to an extracted pitch deck.
// Each stage is a fixed prompt sent to a model; none keeps state between calls.
package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thywilljoshua/pitchdeck/internal/ai"
)

const analysisTemperature = 0.1

// stage wraps one model call with the logging shared by every agent.
type stage struct {
	name string
	log  *zap.Logger
}

func newStage(name string, log *zap.Logger) stage {
	if log == nil {
		log = zap.NewNop()
	}
	return stage{name: name, log: log.Named("agents")}
}

func (s stage) complete(ctx context.Context, c ai.Completer, p ai.Prompt, input int) (string, error) {
	start := time.Now()
	s.log.Info("stage started", zap.String("stage", s.name), zap.Int("input_length", input))
	out, err := c.Complete(ctx, p)
	if err != nil {
		s.log.Error("stage failed", zap.String("stage", s.name), zap.Error(err))
		return "", fmt.Errorf("%s: %w", s.name, err)
	}
	s.log.Info("stage finished",
		zap.String("stage", s.name),
		zap.Int("output_length", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// PitchDeck summarizes what the company does, how it earns money and its
// highlights.
type PitchDeck struct {
	model ai.Completer
	stage stage
}

func NewPitchDeck(model ai.Completer, log *zap.Logger) *PitchDeck {
	return &PitchDeck{model: model, stage: newStage("pitch deck analysis", log)}
}

func (a *PitchDeck) Analyze(ctx context.Context, text string) (string, error) {
	return a.stage.complete(ctx, a.model, ai.Prompt{
		System:      pitchDeckSystem,
		User:        fmt.Sprintf(pitchDeckUser, text),
		Temperature: analysisTemperature,
	}, len(text))
}

// Product explains the company's product and how it works.
type Product struct {
	model ai.Completer
	stage stage
}

func NewProduct(model ai.Completer, log *zap.Logger) *Product {
	return &Product{model: model, stage: newStage("product analysis", log)}
}

func (a *Product) Analyze(ctx context.Context, text string) (string, error) {
	return a.stage.complete(ctx, a.model, ai.Prompt{
		System:      productSystem,
		User:        fmt.Sprintf(productUser, text),
		Temperature: analysisTemperature,
	}, len(text))
}
