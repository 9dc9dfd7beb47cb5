package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/thywilljoshua/pitchdeck/internal/agents"
	"github.com/thywilljoshua/pitchdeck/internal/ai"
	"github.com/thywilljoshua/pitchdeck/internal/config"
	"github.com/thywilljoshua/pitchdeck/internal/extract"
	"github.com/thywilljoshua/pitchdeck/internal/logging"
	"github.com/thywilljoshua/pitchdeck/internal/pdf"
)

// state is shared by every subcommand: flags from the root command plus the
// configuration and logger built from them.
type state struct {
	configPath string
	provider   string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func (s *state) setup() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	if s.provider != "" {
		cfg.Provider = s.provider
	}
	if s.logLevel != "" {
		cfg.Log.Level = s.logLevel
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s.cfg, s.log = cfg, log
	return nil
}

func (s *state) close() {
	if s.log != nil {
		_ = s.log.Sync()
	}
}

// models holds the clients for the selected provider, one per role.
type models struct {
	documents ai.DocumentService
	analysis  ai.Completer
	search    ai.Searcher
	formatter ai.Completer
}

func (s *state) models(ctx context.Context) (*models, error) {
	var m models
	switch s.cfg.Provider {
	case config.ProviderGemini:
		g, err := ai.NewGemini(ctx, ai.GeminiConfig{
			APIKey: s.cfg.Gemini.APIKey,
			Model:  s.cfg.Gemini.Model,
			Logger: s.log,
		})
		if err != nil {
			return nil, err
		}
		m = models{documents: g, analysis: g, search: g, formatter: g}
	default:
		o, err := ai.NewOpenAI(ai.OpenAIConfig{
			APIKey:  s.cfg.OpenAI.APIKey,
			BaseURL: s.cfg.OpenAI.BaseURL,
			Logger:  s.log,
		})
		if err != nil {
			return nil, err
		}
		market := o.WithModel(s.cfg.OpenAI.MarketModel)
		m = models{
			documents: o.WithModel(s.cfg.OpenAI.ExtractionModel),
			analysis:  o.WithModel(s.cfg.OpenAI.AnalysisModel),
			search:    market,
			formatter: market,
		}
	}
	return &m, nil
}

// researchLookup returns the completer used for company research: Perplexity
// when a key is configured, otherwise the provider's web search.
func (s *state) researchLookup(m *models) (ai.Completer, error) {
	if s.cfg.Perplexity.APIKey == "" {
		s.log.Warn("PERPLEXITY_API_KEY not set, company research uses provider web search",
			zap.String("provider", s.cfg.Provider))
		return ai.SearchCompleter{Searcher: m.search}, nil
	}
	return ai.NewOpenAI(ai.OpenAIConfig{
		APIKey:  s.cfg.Perplexity.APIKey,
		BaseURL: s.cfg.Perplexity.BaseURL,
		Model:   s.cfg.Perplexity.Model,
		Logger:  s.log.Named("perplexity"),
	})
}

func (s *state) orchestrator(docs ai.DocumentService, maxPages, concurrency int) *extract.Orchestrator {
	ec := s.cfg.Extraction
	return extract.NewOrchestrator(
		pdf.Counter{},
		pdf.NewWriter(pdf.WriterOptions{Strict: ec.StrictChunkVerification, Logger: s.log}),
		extract.NewExtractor(docs, extract.ExtractorOptions{CallTimeout: ec.CallTimeout, Logger: s.log}),
		extract.Options{
			MaxPagesPerChunk: maxPages,
			Concurrency:      concurrency,
			TempDir:          ec.TempDir,
			Logger:           s.log,
		},
	)
}

func (s *state) pipeline(m *models) (*agents.Pipeline, error) {
	lookup, err := s.researchLookup(m)
	if err != nil {
		return nil, err
	}
	return &agents.Pipeline{
		PitchDeck: agents.NewPitchDeck(m.analysis, s.log),
		Product:   agents.NewProduct(m.analysis, s.log),
		Research:  agents.NewResearch(m.analysis, lookup, s.log),
		Market:    agents.NewMarket(m.search, m.formatter, s.log),
		Report:    agents.NewReport(m.analysis, s.log),
		Logger:    s.log,
	}, nil
}

// validateExtractionFlags applies the config's extraction bounds to values
// given on the command line.
func validateExtractionFlags(maxPages, concurrency int) error {
	var errs []error
	if maxPages < 1 {
		errs = append(errs, fmt.Errorf("--max-pages must be positive, got %d", maxPages))
	}
	if concurrency < 1 {
		errs = append(errs, fmt.Errorf("--concurrency must be positive, got %d", concurrency))
	}
	return errors.Join(errs...)
}

// openInput returns a path to the PDF named by arg. "-" spools stdin to a
// temporary file, removed by the returned cleanup func.
func openInput(arg string, stdin io.Reader, tempDir string) (string, func(), error) {
	if arg != "-" {
		if _, err := os.Stat(arg); err != nil {
			return "", nil, err
		}
		return arg, func() {}, nil
	}
	f, err := os.CreateTemp(tempDir, "pitchdeck-stdin-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("spool stdin: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	_, copyErr := io.Copy(f, stdin)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("spool stdin: %w", err)
	}
	return f.Name(), cleanup, nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
