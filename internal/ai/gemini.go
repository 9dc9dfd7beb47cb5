package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini talks to the Gemini API. It serves as a DocumentService through the
// Files API and as a Completer and Searcher through GenerateContent.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger

	// PollInterval is the delay between file state checks after upload.
	PollInterval time.Duration
}

// GeminiConfig configures a Gemini client. BaseURL overrides the API endpoint.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: c, model: cfg.Model, log: cfg.Logger.Named("gemini"), PollInterval: 2 * time.Second}, nil
}

// WithModel returns a copy of g that sends requests to model.
func (g *Gemini) WithModel(model string) *Gemini {
	cp := *g
	if model != "" {
		cp.model = model
	}
	return &cp
}

func (g *Gemini) Upload(ctx context.Context, name string, data []byte) (UploadHandle, error) {
	f, err := g.client.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{
		MIMEType:    pdfMIMEType,
		DisplayName: name,
	})
	if err != nil {
		return UploadHandle{}, fmt.Errorf("upload %s: %w", name, err)
	}
	h := UploadHandle{ID: f.Name, URI: f.URI, MIMEType: f.MIMEType}

	// Files stay PROCESSING for a moment before they can be referenced.
	for f.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return h, ctx.Err()
		case <-time.After(g.PollInterval):
		}
		if f, err = g.client.Files.Get(ctx, h.ID, nil); err != nil {
			return h, fmt.Errorf("poll file %s: %w", h.ID, err)
		}
	}
	if f.State == genai.FileStateFailed {
		return h, fmt.Errorf("file %s failed processing", h.ID)
	}
	h.URI, h.MIMEType = f.URI, f.MIMEType
	if h.MIMEType == "" {
		h.MIMEType = pdfMIMEType
	}
	g.log.Debug("file uploaded", zap.String("upload_id", h.ID), zap.Int("bytes", len(data)))
	return h, nil
}

func (g *Gemini) Generate(ctx context.Context, h UploadHandle, instruction string) (string, error) {
	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(instruction),
		genai.NewPartFromURI(h.URI, h.MIMEType),
	}, genai.RoleUser)
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{content}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return res.Text(), nil
}

func (g *Gemini) Delete(ctx context.Context, h UploadHandle) error {
	if _, err := g.client.Files.Delete(ctx, h.ID, nil); err != nil {
		return fmt.Errorf("delete file %s: %w", h.ID, err)
	}
	return nil
}

func (g *Gemini) Complete(ctx context.Context, p Prompt) (string, error) {
	return g.generateText(ctx, p, nil)
}

// Search grounds the answer with Google Search.
func (g *Gemini) Search(ctx context.Context, p Prompt) (string, error) {
	return g.generateText(ctx, p, []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}})
}

func (g *Gemini) generateText(ctx context.Context, p Prompt, tools []*genai.Tool) (string, error) {
	cfg := &genai.GenerateContentConfig{Tools: tools}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.Temperature > 0 {
		cfg.Temperature = genai.Ptr(p.Temperature)
	}
	if p.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(p.MaxTokens)
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return res.Text(), nil
}
