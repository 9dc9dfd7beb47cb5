package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultOpenAIModel     = "gpt-4o"
	DefaultPerplexityModel = "sonar-pro"
	PerplexityBaseURL      = "https://api.perplexity.ai"

	defaultOpenAIBase = "https://api.openai.com/v1"
)

// OpenAIConfig configures an OpenAI-compatible client. Perplexity is reached
// through the same client with BaseURL set to PerplexityBaseURL.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// OpenAI implements DocumentService, Completer and Searcher on top of the
// OpenAI API. Files and chat completions go through go-openai, the Responses
// endpoint through the official openai-go SDK.
type OpenAI struct {
	client    *openai.Client
	responses *responses.ResponseService
	model     string
	log       *zap.Logger
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing api key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBase
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Minute}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = base
	oc.HTTPClient = cfg.HTTPClient

	// no retries: a failed call fails the extraction
	rc := openaigo.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(base+"/"),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(0),
	)
	return &OpenAI{
		client:    openai.NewClientWithConfig(oc),
		responses: &rc.Responses,
		model:     cfg.Model,
		log:       cfg.Logger.Named("openai"),
	}, nil
}

// WithModel returns a copy of o that sends requests to model.
func (o *OpenAI) WithModel(model string) *OpenAI {
	cp := *o
	if model != "" {
		cp.model = model
	}
	return &cp
}

func (o *OpenAI) Upload(ctx context.Context, name string, data []byte) (UploadHandle, error) {
	f, err := o.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    name,
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		return UploadHandle{}, fmt.Errorf("upload %s: %w", name, err)
	}
	o.log.Debug("file uploaded", zap.String("upload_id", f.ID), zap.Int("bytes", len(data)))
	return UploadHandle{ID: f.ID, MIMEType: pdfMIMEType}, nil
}

func (o *OpenAI) Generate(ctx context.Context, h UploadHandle, instruction string) (string, error) {
	content := responses.ResponseInputMessageContentListParam{
		responses.ResponseInputContentParamOfInputText(instruction),
		{OfInputFile: &responses.ResponseInputFileParam{FileID: openaigo.String(h.ID)}},
	}
	return o.respond(ctx, responses.ResponseNewParams{
		Model: o.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	})
}

func (o *OpenAI) Delete(ctx context.Context, h UploadHandle) error {
	if err := o.client.DeleteFile(ctx, h.ID); err != nil {
		return fmt.Errorf("delete file %s: %w", h.ID, err)
	}
	return nil
}

func (o *OpenAI) Complete(ctx context.Context, p Prompt) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}
	if p.System != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Search runs the prompt through the Responses API with web search enabled.
func (o *OpenAI) Search(ctx context.Context, p Prompt) (string, error) {
	params := responses.ResponseNewParams{
		Model: o.model,
		Input: responses.ResponseNewParamsInputUnion{OfString: openaigo.String(p.User)},
		Tools: []responses.ToolUnionParam{
			responses.ToolParamOfWebSearchPreview(responses.WebSearchToolTypeWebSearchPreview),
		},
	}
	if p.System != "" {
		params.Instructions = openaigo.String(p.System)
	}
	if p.MaxTokens > 0 {
		params.MaxOutputTokens = openaigo.Int(int64(p.MaxTokens))
	}
	return o.respond(ctx, params)
}

func (o *OpenAI) respond(ctx context.Context, params responses.ResponseNewParams) (string, error) {
	start := time.Now()
	resp, err := o.responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("responses api: %w", err)
	}
	text := resp.OutputText()
	o.log.Debug("responses call finished",
		zap.String("model", o.model),
		zap.String("response_id", resp.ID),
		zap.Int("bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}
