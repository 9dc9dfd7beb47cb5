// Package ai holds the remote model clients used for document extraction and
// text analysis.
package ai

import (
	"context"
	"strings"
)

// UploadHandle identifies a document held by a remote service. It is valid
// until passed to DocumentService.Delete.
type UploadHandle struct {
	ID       string `json:"id"`
	URI      string `json:"uri,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

// DocumentService uploads a PDF, runs one instruction against it and deletes
// it again.
type DocumentService interface {
	Upload(ctx context.Context, name string, data []byte) (UploadHandle, error)
	Generate(ctx context.Context, h UploadHandle, instruction string) (string, error)
	Delete(ctx context.Context, h UploadHandle) error
}

// Prompt is a single system/user exchange. Zero Temperature and MaxTokens
// leave the provider defaults in place.
type Prompt struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Completer answers a prompt from the model's own knowledge.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Searcher answers a prompt with the provider's web search enabled.
type Searcher interface {
	Search(ctx context.Context, p Prompt) (string, error)
}

const pdfMIMEType = "application/pdf"

// StripCodeFences removes a surrounding ```lang ... ``` wrapper that models
// sometimes add to plain markdown answers.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.Index(s, "\n"); nl != -1 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// SearchCompleter lets a Searcher stand in where a Completer is expected.
type SearchCompleter struct {
	Searcher Searcher
}

func (s SearchCompleter) Complete(ctx context.Context, p Prompt) (string, error) {
	return s.Searcher.Search(ctx, p)
}
