package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thywilljoshua/pitchdeck/internal/ai"
)

const reportMaxTokens = 4000

// ReportInput carries the outputs of the four analysis stages.
type ReportInput struct {
	PitchDeck   string `json:"pitchdeck_analysis"`
	Product     string `json:"product_analysis"`
	Research    string `json:"web_research"`
	Market      string `json:"market_analysis"`
	CompanyName string `json:"company_name,omitempty"`
}

// Report merges the stage outputs into a single markdown document.
type Report struct {
	model ai.Completer
	stage stage
}

func NewReport(model ai.Completer, log *zap.Logger) *Report {
	return &Report{model: model, stage: newStage("report generation", log)}
}

func (r *Report) Generate(ctx context.Context, in ReportInput) (string, error) {
	company := strings.TrimSpace(in.CompanyName)
	if company == "" {
		company = "Not specified"
	}
	user := fmt.Sprintf(reportUser, company, in.PitchDeck, in.Product, in.Research, in.Market)
	out, err := r.stage.complete(ctx, r.model, ai.Prompt{
		System:      reportSystem,
		User:        user,
		Temperature: analysisTemperature,
		MaxTokens:   reportMaxTokens,
	}, len(user))
	if err != nil {
		return "", err
	}
	return ai.StripCodeFences(out), nil
}
