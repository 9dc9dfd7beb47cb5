package agents

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Analysis holds the output of every stage for one deck.
type Analysis struct {
	PitchDeck string         `json:"pitchdeck_analysis"`
	Product   string         `json:"product_analysis"`
	Research  ResearchResult `json:"web_research"`
	Market    MarketResult   `json:"market_analysis"`
	Report    string         `json:"report"`
}

// Pipeline runs the four analysis stages one after another and then the report.
type Pipeline struct {
	PitchDeck *PitchDeck
	Product   *Product
	Research  *Research
	Market    *Market
	Report    *Report
	Logger    *zap.Logger
}

func (p *Pipeline) Run(ctx context.Context, text string) (*Analysis, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	var (
		out Analysis
		err error
	)
	if out.PitchDeck, err = p.PitchDeck.Analyze(ctx, text); err != nil {
		return nil, err
	}
	if out.Product, err = p.Product.Analyze(ctx, text); err != nil {
		return nil, err
	}
	if out.Research, err = p.Research.Run(ctx, text); err != nil {
		return nil, err
	}
	if out.Market, err = p.Market.Analyze(ctx, text); err != nil {
		return nil, err
	}

	company := out.Research.CompanyName
	if company == CompanyNotFound {
		company = ""
	}
	out.Report, err = p.Report.Generate(ctx, ReportInput{
		PitchDeck:   out.PitchDeck,
		Product:     out.Product,
		Research:    out.Research.Content,
		Market:      out.Market.Analysis,
		CompanyName: company,
	})
	if err != nil {
		return nil, err
	}

	log.Info("analysis pipeline finished",
		zap.String("company", out.Research.CompanyName),
		zap.Int("report_length", len(out.Report)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &out, nil
}
