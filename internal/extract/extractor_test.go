package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestExtractReturnsTextAndDeletesUpload(t *testing.T) {
	svc := &fakeService{}
	x := NewExtractor(svc, ExtractorOptions{})

	got, err := x.Extract(context.Background(), "deck.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "text of deck.pdf", got.Text)
	assert.False(t, got.SuspectedRefusal)

	uploads, generates, deletes := svc.counts()
	assert.Equal(t, 1, uploads)
	assert.Equal(t, 1, generates)
	assert.Equal(t, 1, deletes)
}

func TestExtractFlagsSuspectedRefusal(t *testing.T) {
	reply := "I'm sorry, but I am unable to transcribe the contents of this file."
	reply += strings.Repeat(".", 120-len(reply))
	require.Len(t, reply, 120)

	core, logs := observer.New(zapcore.WarnLevel)
	svc := &fakeService{generate: func(context.Context, string) (string, error) { return reply, nil }}
	x := NewExtractor(svc, ExtractorOptions{Logger: zap.New(core)})

	got, err := x.Extract(context.Background(), "deck.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.True(t, got.SuspectedRefusal)
	assert.Equal(t, reply, got.Text)
	assert.Equal(t, 1, logs.FilterMessage("possible refusal response").Len())
}

func TestExtractDeletesUploadWhenGenerateFails(t *testing.T) {
	boom := errors.New("model overloaded")
	svc := &fakeService{generate: func(context.Context, string) (string, error) { return "", boom }}
	x := NewExtractor(svc, ExtractorOptions{})

	_, err := x.Extract(context.Background(), "deck.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, boom)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindExtractionFailed, e.Kind)

	assert.Equal(t, []string{"file-1"}, svc.deletes)
}

func TestExtractUploadFailureSkipsEverythingElse(t *testing.T) {
	svc := &fakeService{uploadErr: errors.New("quota exceeded")}
	x := NewExtractor(svc, ExtractorOptions{})

	_, err := x.Extract(context.Background(), "deck.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.NotErrorIs(t, err, ErrExtractionFailed)

	_, generates, deletes := svc.counts()
	assert.Zero(t, generates)
	assert.Zero(t, deletes)
}

func TestExtractReleasesHandleFromFailedUpload(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := &fakeService{uploadErr: errors.New("file failed processing"), uploadHandle: "files/broken"}
	x := NewExtractor(svc, ExtractorOptions{Logger: zap.New(core)})

	_, err := x.Extract(context.Background(), "deck.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadFailed)

	_, generates, _ := svc.counts()
	assert.Zero(t, generates)
	assert.Equal(t, []string{"files/broken"}, svc.deletes)
	assert.Equal(t, 1, logs.FilterMessage("upload deleted").Len())
}

func TestExtractCallTimeoutExpires(t *testing.T) {
	svc := &fakeService{generate: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	x := NewExtractor(svc, ExtractorOptions{CallTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := x.Extract(context.Background(), "deck.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.EqualError(t, err, "[extraction_failed] generate deck.pdf: context deadline exceeded")
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, []string{"file-1"}, svc.deletes)
	assert.NoError(t, svc.deleteCtxErr, "the delete runs on a fresh deadline")
}

func TestExtractDeletesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &fakeService{generate: func(ctx context.Context, _ string) (string, error) {
		cancel()
		<-ctx.Done()
		return "", ctx.Err()
	}}
	x := NewExtractor(svc, ExtractorOptions{})

	_, err := x.Extract(ctx, "deck.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Len(t, svc.deletes, 1)
	assert.NoError(t, svc.deleteCtxErr)
}

func TestExtractDeleteFailureIsOnlyLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := &fakeService{deleteErr: errors.New("not found")}
	x := NewExtractor(svc, ExtractorOptions{Logger: zap.New(core)})

	got, err := x.Extract(context.Background(), "deck.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "text of deck.pdf", got.Text)
	assert.Equal(t, 1, logs.FilterMessage("upload cleanup failed").Len())
}

func TestExtractFileMissing(t *testing.T) {
	x := NewExtractor(&fakeService{}, ExtractorOptions{})
	_, err := x.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, ErrDocumentUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLooksLikeRefusal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "short refusal", text: "I can't help with that request.", want: true},
		{name: "ocr suggestion", text: "Please USE OCR software for scanned pages.", want: true},
		{name: "short transcription", text: "=\nAcme Robotics\nSeed round 2024", want: false},
		{name: "long text with phrase", text: strings.Repeat("revenue ", 70) + "cannot help", want: false},
		{name: "empty", text: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeRefusal(tt.text))
		})
	}
}
