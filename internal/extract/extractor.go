// Package extract turns PDF documents into text through a remote document
// service, splitting large documents into page-bounded chunks.
package extract

import (
	"context"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/thywilljoshua/pitchdeck/internal/ai"
)

// Instruction is sent with every uploaded document.
const Instruction = `Extract the text content of this PDF document in strict page order.

Preserve the text exactly as it appears in the document.
Do not reorder, summarize or reorganize the content.
Keep tables and lists in a readable, logical structure.

Return only the text, one block per page, each block preceded by a line containing a single "=":
=
[content of page 1]
=
[content of page 2]`

const (
	DefaultCallTimeout = 5 * time.Minute
	deleteTimeout      = 30 * time.Second
)

// Extraction is the text returned for one document.
type Extraction struct {
	Text             string `json:"text"`
	SuspectedRefusal bool   `json:"suspected_refusal"`
}

type ExtractorOptions struct {
	// CallTimeout bounds each remote call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
	Logger      *zap.Logger
}

// Extractor runs the upload, generate, delete lifecycle for a single document.
type Extractor struct {
	svc     ai.DocumentService
	timeout time.Duration
	log     *zap.Logger
}

func NewExtractor(svc ai.DocumentService, opts ExtractorOptions) *Extractor {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Extractor{svc: svc, timeout: opts.CallTimeout, log: opts.Logger.Named("extractor")}
}

// ExtractFile reads the PDF at path and extracts it.
func (x *Extractor) ExtractFile(ctx context.Context, path string) (Extraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, newError(KindDocumentUnreadable, "read "+filepath.Base(path), err)
	}
	return x.Extract(ctx, filepath.Base(path), data)
}

// Extract uploads data, asks the service for its text and deletes the upload
// before returning, whatever the outcome.
func (x *Extractor) Extract(ctx context.Context, name string, data []byte) (Extraction, error) {
	var out Extraction
	start := time.Now()

	err := x.withUpload(ctx, name, data, func(h ai.UploadHandle) error {
		cctx, cancel := context.WithTimeout(ctx, x.timeout)
		defer cancel()

		text, err := x.svc.Generate(cctx, h, Instruction)
		if err != nil {
			return newError(KindExtractionFailed, "generate "+name, err)
		}
		out.Text = text
		return nil
	})
	if err != nil {
		return Extraction{}, err
	}

	if LooksLikeRefusal(out.Text) {
		out.SuspectedRefusal = true
		x.log.Warn("possible refusal response",
			zap.String("document", name),
			zap.Int("length", utf8.RuneCountInString(out.Text)),
			zap.String("text", out.Text),
		)
	}
	x.log.Info("document extracted",
		zap.String("document", name),
		zap.Int("bytes", len(data)),
		zap.Int("text_length", len(out.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// withUpload uploads data, hands the handle to use and deletes the upload on
// every path once the upload succeeded.
func (x *Extractor) withUpload(ctx context.Context, name string, data []byte, use func(ai.UploadHandle) error) error {
	uctx, cancel := context.WithTimeout(ctx, x.timeout)
	h, err := x.svc.Upload(uctx, name, data)
	cancel()
	if err != nil {
		// a service may hand back a handle for an upload that never became usable
		if h.ID != "" {
			x.release(ctx, h)
		}
		return newError(KindUploadFailed, "upload "+name, err)
	}
	defer x.release(ctx, h)
	return use(h)
}

// release deletes the upload on a context that survives cancellation of ctx.
func (x *Extractor) release(ctx context.Context, h ai.UploadHandle) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()
	if err := x.svc.Delete(dctx, h); err != nil {
		x.log.Warn("upload cleanup failed", zap.String("upload_id", h.ID), zap.Error(err))
		return
	}
	x.log.Debug("upload deleted", zap.String("upload_id", h.ID))
}
