package extract

import (
	"context"
	"fmt"
	"sync"

	"github.com/thywilljoshua/pitchdeck/internal/ai"
	"github.com/thywilljoshua/pitchdeck/internal/pdf"
)

// fakeService is an in-memory ai.DocumentService that records every call.
type fakeService struct {
	mu        sync.Mutex
	uploads   []string
	generates []string
	deletes   []string

	uploadErr    error
	uploadHandle string // returned alongside uploadErr, like an upload that never became usable
	generate     func(ctx context.Context, name string) (string, error)
	deleteErr    error
	deleteCtxErr error
}

func (f *fakeService) Upload(ctx context.Context, name string, data []byte) (ai.UploadHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return ai.UploadHandle{ID: f.uploadHandle}, f.uploadErr
	}
	f.uploads = append(f.uploads, name)
	return ai.UploadHandle{ID: fmt.Sprintf("file-%d", len(f.uploads)), URI: name, MIMEType: "application/pdf"}, nil
}

func (f *fakeService) Generate(ctx context.Context, h ai.UploadHandle, instruction string) (string, error) {
	f.mu.Lock()
	f.generates = append(f.generates, h.URI)
	gen := f.generate
	f.mu.Unlock()
	if gen == nil {
		return "text of " + h.URI, nil
	}
	return gen(ctx, h.URI)
}

func (f *fakeService) Delete(ctx context.Context, h ai.UploadHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, h.ID)
	if err := ctx.Err(); err != nil {
		f.deleteCtxErr = err
	}
	return f.deleteErr
}

func (f *fakeService) counts() (uploads, generates, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads), len(f.generates), len(f.deletes)
}

// recordingWriter wraps a ChunkWriter and keeps every chunk it produced.
type recordingWriter struct {
	inner ChunkWriter

	mu     sync.Mutex
	chunks []*pdf.Chunk
	ranges []pdf.PageRange
}

func (w *recordingWriter) Write(ctx context.Context, src, dst string, r pdf.PageRange) (*pdf.Chunk, error) {
	w.mu.Lock()
	w.ranges = append(w.ranges, r)
	w.mu.Unlock()
	c, err := w.inner.Write(ctx, src, dst, r)
	if err == nil {
		w.mu.Lock()
		w.chunks = append(w.chunks, c)
		w.mu.Unlock()
	}
	return c, err
}

type staticCounter int

func (n staticCounter) CountPages(string) (int, error) { return int(n), nil }

type failingWriter struct{ err error }

func (w failingWriter) Write(context.Context, string, string, pdf.PageRange) (*pdf.Chunk, error) {
	return nil, w.err
}
