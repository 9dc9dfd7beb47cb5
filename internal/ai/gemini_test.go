package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini serves the parts of the Gemini API the client touches: the
// resumable upload handshake, file polling, deletion and generateContent.
type fakeGemini struct {
	url string

	mu         sync.Mutex
	polls      int
	readyAfter int    // polls answered PROCESSING before the final state
	finalState string // state reported once processing ends
	deleted    []string
	generated  []map[string]any
	uploaded   []byte
}

func (f *fakeGemini) fileJSON(state string) string {
	return `{"name":"files/abc","uri":"` + f.url + `/v1beta/files/abc","mimeType":"application/pdf","state":"` + state + `"}`
}

func (f *fakeGemini) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case strings.Contains(r.Header.Get("X-Goog-Upload-Command"), "start"):
			w.Header().Set("X-Goog-Upload-URL", f.url+"/upload-session")
			_, _ = io.WriteString(w, `{}`)
		case r.URL.Path == "/upload-session":
			f.uploaded, _ = io.ReadAll(r.Body)
			w.Header().Set("X-Goog-Upload-Status", "final")
			_, _ = io.WriteString(w, `{"file":`+f.fileJSON("PROCESSING")+`}`)
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/files/abc"):
			f.polls++
			state := f.finalState
			if f.polls <= f.readyAfter {
				state = "PROCESSING"
			}
			_, _ = io.WriteString(w, f.fileJSON(state))
		case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/files/abc"):
			f.deleted = append(f.deleted, "files/abc")
			_, _ = io.WriteString(w, `{}`)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":generateContent"):
			var body map[string]any
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			f.generated = append(f.generated, body)
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"page one"}]}}]}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeGemini) stats() (polls int, uploaded string, deleted []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls, string(f.uploaded), append([]string(nil), f.deleted...)
}

func (f *fakeGemini) lastGenerate() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generated[len(f.generated)-1]
}

func newTestGemini(t *testing.T, f *fakeGemini) *Gemini {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	f.url = srv.URL

	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	g.PollInterval = time.Millisecond
	return g
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestGeminiDocumentLifecycle(t *testing.T) {
	f := &fakeGemini{readyAfter: 2, finalState: "ACTIVE"}
	g := newTestGemini(t, f)
	ctx := context.Background()

	h, err := g.Upload(ctx, "deck.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "files/abc", h.ID)
	assert.Equal(t, f.url+"/v1beta/files/abc", h.URI)
	assert.Equal(t, "application/pdf", h.MIMEType)
	polls, uploaded, _ := f.stats()
	assert.Equal(t, 3, polls, "polls until the file leaves PROCESSING")
	assert.Equal(t, "%PDF-1.4", uploaded)

	text, err := g.Generate(ctx, h, "extract everything")
	require.NoError(t, err)
	assert.Equal(t, "page one", text)

	contents := f.lastGenerate()["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "extract everything", parts[0].(map[string]any)["text"])
	fileData := parts[1].(map[string]any)["fileData"].(map[string]any)
	assert.Equal(t, h.URI, fileData["fileUri"])

	require.NoError(t, g.Delete(ctx, h))
	_, _, deleted := f.stats()
	assert.Equal(t, []string{"files/abc"}, deleted)
}

func TestGeminiUploadFailedProcessingReturnsHandle(t *testing.T) {
	f := &fakeGemini{finalState: "FAILED"}
	g := newTestGemini(t, f)

	h, err := g.Upload(context.Background(), "deck.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed processing")
	assert.Equal(t, "files/abc", h.ID, "the handle is kept so the caller can delete it")
}

func TestGeminiUploadStopsPollingOnCancel(t *testing.T) {
	f := &fakeGemini{readyAfter: 1 << 30, finalState: "ACTIVE"}
	g := newTestGemini(t, f)
	g.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	h, err := g.Upload(ctx, "deck.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "files/abc", h.ID)
}

func TestGeminiCompleteSendsSystemInstruction(t *testing.T) {
	f := &fakeGemini{}
	g := newTestGemini(t, f).WithModel("gemini-test")

	out, err := g.Complete(context.Background(), Prompt{System: "be terse", User: "who?", Temperature: 0.2, MaxTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "page one", out)

	body := f.lastGenerate()
	sys := body["systemInstruction"].(map[string]any)
	assert.Equal(t, "be terse", sys["parts"].([]any)[0].(map[string]any)["text"])
	gc := body["generationConfig"].(map[string]any)
	assert.EqualValues(t, 64, gc["maxOutputTokens"])
	assert.NotContains(t, body, "tools")
}

func TestGeminiSearchEnablesGoogleSearch(t *testing.T) {
	f := &fakeGemini{}
	g := newTestGemini(t, f)

	_, err := g.Search(context.Background(), Prompt{User: "size the market"})
	require.NoError(t, err)

	body := f.lastGenerate()
	tools := body["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Contains(t, tools[0].(map[string]any), "googleSearch")
	assert.NotContains(t, body, "systemInstruction")
}
