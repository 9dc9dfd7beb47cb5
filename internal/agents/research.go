package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thywilljoshua/pitchdeck/internal/ai"
)

// ResearchResult is the company found in the deck and what the web says about it.
type ResearchResult struct {
	CompanyName string `json:"company_name"`
	Content     string `json:"research_content"`
}

// Research identifies the company behind a deck and looks it up. Name
// extraction uses the analysis model; the lookup goes to a search-backed model.
type Research struct {
	names  ai.Completer
	lookup ai.Completer
	nameSt stage
	newsSt stage
}

func NewResearch(names, lookup ai.Completer, log *zap.Logger) *Research {
	return &Research{
		names:  names,
		lookup: lookup,
		nameSt: newStage("company name extraction", log),
		newsSt: newStage("company research", log),
	}
}

// CompanyName returns the company named in text, or CompanyNotFound.
func (r *Research) CompanyName(ctx context.Context, text string) (string, error) {
	name, err := r.nameSt.complete(ctx, r.names, ai.Prompt{
		System:      companyNameSystem,
		User:        fmt.Sprintf(companyNameUser, text),
		Temperature: analysisTemperature,
	}, len(text))
	if err != nil {
		return "", err
	}
	name = strings.Trim(strings.TrimSpace(name), `"`)
	if name == "" {
		return CompanyNotFound, nil
	}
	return name, nil
}

// Company fetches recent news about the named company.
func (r *Research) Company(ctx context.Context, name string) (string, error) {
	return r.newsSt.complete(ctx, r.lookup, ai.Prompt{User: fmt.Sprintf(companyNewsUser, name)}, len(name))
}

func (r *Research) Run(ctx context.Context, text string) (ResearchResult, error) {
	name, err := r.CompanyName(ctx, text)
	if err != nil {
		return ResearchResult{}, err
	}
	if name == CompanyNotFound {
		return ResearchResult{CompanyName: name, Content: noCompanyContent}, nil
	}
	content, err := r.Company(ctx, name)
	if err != nil {
		return ResearchResult{}, err
	}
	return ResearchResult{CompanyName: name, Content: content}, nil
}
