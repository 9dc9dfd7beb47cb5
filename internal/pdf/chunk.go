package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// ErrPageMismatch reports a written chunk whose page count differs from its range.
var ErrPageMismatch = errors.New("chunk page count mismatch")

// Chunk is a standalone PDF holding one page range of a larger document.
type Chunk struct {
	Range     PageRange
	Path      string
	SizeBytes int64
	PageCount int

	once       sync.Once
	releaseErr error
}

// Release deletes the chunk's backing file. Only the first call touches the
// filesystem; later calls return the first result.
func (c *Chunk) Release() error {
	c.once.Do(func() {
		if err := os.Remove(c.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.releaseErr = err
		}
	})
	return c.releaseErr
}

// WriterOptions configures chunk materialization.
type WriterOptions struct {
	// Strict turns a page count mismatch after writing into an error.
	Strict bool
	Logger *zap.Logger
}

// Writer materializes page ranges as independent PDF files using pdfcpu.
type Writer struct {
	strict bool
	log    *zap.Logger

	// count re-reads a written chunk; api.PageCountFile outside tests.
	count func(path string) (int, error)
}

func NewWriter(opts WriterOptions) *Writer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{strict: opts.Strict, log: log.Named("chunk"), count: api.PageCountFile}
}

// Write copies the pages of r from src into a new PDF at dst and checks that
// the result holds exactly r.Len() pages.
func (w *Writer) Write(ctx context.Context, src, dst string, r PageRange) (*Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.Len() == 0 {
		return nil, fmt.Errorf("empty page range %s", r)
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open source pdf: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create chunk file: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	cw := &countingWriter{w: out}
	trimErr := api.Trim(in, cw, []string{r.Selection()}, conf)
	closeErr := out.Close()
	if err := errors.Join(trimErr, closeErr); err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("write pages %s: %w", r, err)
	}

	c := &Chunk{Range: r, Path: dst, SizeBytes: cw.n}
	got, err := w.count(dst)
	if err != nil {
		_ = c.Release()
		return nil, fmt.Errorf("re-read chunk %s: %w", r, err)
	}
	c.PageCount = got

	if got != r.Len() {
		w.log.Warn("chunk page count mismatch",
			zap.String("pages", r.String()),
			zap.Int("expected", r.Len()),
			zap.Int("actual", got),
			zap.String("path", dst),
		)
		if w.strict {
			_ = c.Release()
			return nil, fmt.Errorf("pages %s: expected %d, wrote %d: %w", r, r.Len(), got, ErrPageMismatch)
		}
	}

	w.log.Debug("chunk written",
		zap.String("pages", r.String()),
		zap.Int("page_count", got),
		zap.Int64("bytes", c.SizeBytes),
	)
	return c, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
