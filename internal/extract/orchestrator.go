package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/pitchdeck/internal/pdf"
)

// PageCounter reports the number of pages in a PDF file.
type PageCounter interface {
	CountPages(path string) (int, error)
}

// ChunkWriter writes the pages of a range into a standalone PDF at dst.
type ChunkWriter interface {
	Write(ctx context.Context, src, dst string, r pdf.PageRange) (*pdf.Chunk, error)
}

// ChunkResult is the text extracted from one chunk.
type ChunkResult struct {
	Index            int           `json:"index"`
	Range            pdf.PageRange `json:"pages"`
	Text             string        `json:"text"`
	SuspectedRefusal bool          `json:"suspected_refusal"`
}

// Result is the outcome of a full extraction run.
type Result struct {
	Text             string        `json:"text"`
	TotalPages       int           `json:"total_pages"`
	Chunked          bool          `json:"chunked"`
	Chunks           []ChunkResult `json:"chunks,omitempty"`
	SuspectedRefusal bool          `json:"suspected_refusal"`
}

type Options struct {
	// MaxPagesPerChunk is the largest document sent in one request.
	// Zero means pdf.DefaultMaxPagesPerChunk.
	MaxPagesPerChunk int
	// Concurrency is the number of chunks processed at once. Values below 2
	// process chunks one after another in page order.
	Concurrency int
	// TempDir is the parent of the per-run chunk directory. Empty means os.TempDir.
	TempDir string
	Logger  *zap.Logger
}

// Orchestrator picks between direct and chunked extraction and owns every
// chunk file it writes.
type Orchestrator struct {
	counter   PageCounter
	writer    ChunkWriter
	extractor *Extractor
	opts      Options
	log       *zap.Logger
}

func NewOrchestrator(counter PageCounter, writer ChunkWriter, extractor *Extractor, opts Options) *Orchestrator {
	if opts.MaxPagesPerChunk == 0 {
		opts.MaxPagesPerChunk = pdf.DefaultMaxPagesPerChunk
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Orchestrator{
		counter:   counter,
		writer:    writer,
		extractor: extractor,
		opts:      opts,
		log:       opts.Logger.Named("extract"),
	}
}

var chunkRule = strings.Repeat("=", 50)

// Run extracts the text of the PDF at path. Documents within the page limit
// are sent whole and their text returned verbatim. Larger documents are
// split, extracted chunk by chunk and joined with a header per chunk. Any
// chunk failure fails the run; no partial text is returned.
func (o *Orchestrator) Run(ctx context.Context, path string) (*Result, error) {
	runID := uuid.NewString()
	log := o.log.With(zap.String("run_id", runID))
	start := time.Now()

	total, err := o.counter.CountPages(path)
	if err != nil {
		return nil, newError(KindDocumentUnreadable, "count pages", err)
	}

	limit := o.opts.MaxPagesPerChunk
	if limit < 1 || total <= limit {
		log.Info("extracting document directly", zap.Int("pages", total))
		ext, err := o.extractor.ExtractFile(ctx, path)
		if err != nil {
			return nil, err
		}
		return &Result{
			Text:             ext.Text,
			TotalPages:       total,
			SuspectedRefusal: ext.SuspectedRefusal,
		}, nil
	}

	ranges := pdf.Partition(total, limit)
	log.Info("extracting document in chunks",
		zap.Int("pages", total),
		zap.Int("chunks", len(ranges)),
		zap.Int("max_pages_per_chunk", limit),
	)

	dir, err := os.MkdirTemp(o.opts.TempDir, "pitchdeck-"+runID+"-")
	if err != nil {
		return nil, newError(KindWriteFailed, "create chunk directory", err)
	}
	chunks := &chunkSet{log: log}
	defer func() {
		chunks.releaseAll()
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("chunk directory cleanup failed", zap.String("dir", dir), zap.Error(err))
		}
	}()

	results := make([]ChunkResult, len(ranges))
	if o.opts.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.opts.Concurrency)
		for i, r := range ranges {
			g.Go(func() error {
				res, err := o.runChunk(gctx, log, path, dir, i+1, len(ranges), r, chunks)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		sort.Slice(results, func(a, b int) bool { return results[a].Range.Start < results[b].Range.Start })
	} else {
		for i, r := range ranges {
			res, err := o.runChunk(ctx, log, path, dir, i+1, len(ranges), r, chunks)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
	}

	out := &Result{TotalPages: total, Chunked: true, Chunks: results, Text: joinChunks(results)}
	for _, r := range results {
		if r.SuspectedRefusal {
			out.SuspectedRefusal = true
		}
	}
	log.Info("all chunks extracted",
		zap.Int("chunks", len(results)),
		zap.Int("text_length", len(out.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// runChunk writes, extracts and releases a single chunk.
func (o *Orchestrator) runChunk(ctx context.Context, log *zap.Logger, src, dir string, index, count int, r pdf.PageRange, chunks *chunkSet) (ChunkResult, error) {
	log = log.With(zap.Int("chunk", index), zap.String("pages", r.String()))
	log.Info("processing chunk", zap.Int("of", count))
	start := time.Now()

	dst := filepath.Join(dir, fmt.Sprintf("chunk-%d-p%d-%d.pdf", index, r.Start, r.End))
	c, err := o.writer.Write(ctx, src, dst, r)
	if err != nil {
		kind := KindWriteFailed
		if errors.Is(err, pdf.ErrPageMismatch) {
			kind = KindChunkIntegrity
		}
		return ChunkResult{}, newError(kind, fmt.Sprintf("write chunk %d (pages %s)", index, r), err)
	}
	chunks.add(c)
	defer chunks.release(c)

	ext, err := o.extractor.ExtractFile(ctx, c.Path)
	if err != nil {
		return ChunkResult{}, fmt.Errorf("chunk %d (pages %s): %w", index, r, err)
	}
	log.Info("chunk extracted",
		zap.Int64("bytes", c.SizeBytes),
		zap.Int("text_length", len(ext.Text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ChunkResult{Index: index, Range: r, Text: ext.Text, SuspectedRefusal: ext.SuspectedRefusal}, nil
}

func joinChunks(results []ChunkResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("=== CHUNK %d: PAGES %d-%d ===\n\n%s", r.Index, r.Range.Start, r.Range.End, r.Text)
	}
	sep := "\n\n" + chunkRule + "\n\n"
	return chunkRule + "\n\n" + strings.Join(blocks, sep) + "\n\n" + chunkRule
}

// chunkSet tracks every chunk written during a run so that a final pass can
// release whatever the per-chunk path did not.
type chunkSet struct {
	mu     sync.Mutex
	chunks []*pdf.Chunk
	log    *zap.Logger
}

func (s *chunkSet) add(c *pdf.Chunk) {
	s.mu.Lock()
	s.chunks = append(s.chunks, c)
	s.mu.Unlock()
}

func (s *chunkSet) release(c *pdf.Chunk) {
	if err := c.Release(); err != nil {
		s.log.Warn("chunk cleanup failed", zap.String("path", c.Path), zap.Error(err))
	}
}

func (s *chunkSet) releaseAll() {
	s.mu.Lock()
	chunks := s.chunks
	s.mu.Unlock()
	for _, c := range chunks {
		s.release(c)
	}
}
