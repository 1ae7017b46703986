package chat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeminiAPI struct {
	mu     sync.Mutex
	paths  []string
	bodies []string
}

func (f *fakeGeminiAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, string(b))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.Contains(r.URL.Path, "embedding-001:"):
		// Covers both the single and the batch embedding response shapes.
		_, _ = io.WriteString(w, `{"embedding":{"values":[0.5,0.25]},"embeddings":[{"values":[0.5,0.25]}]}`)
	case strings.HasSuffix(r.URL.Path, "gemini-1.5-flash:generateContent"):
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Two flights "},{"text":"today."}]}}]}`)
	default:
		http.NotFound(w, r)
	}
}

func newTestGemini(t *testing.T, api http.Handler) *Gemini {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := DefaultGeminiConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL + "/"
	cfg.HTTPClient = srv.Client()

	g, err := NewGemini(context.Background(), cfg)
	require.NoError(t, err)
	return g
}

func TestGeminiEmbed(t *testing.T) {
	api := &fakeGeminiAPI{}
	g := newTestGemini(t, api)

	v, err := g.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25}, v)

	require.Len(t, api.paths, 1)
	assert.Contains(t, api.paths[0], "models/embedding-001:")
	assert.Contains(t, api.bodies[0], "hello")
}

func TestGeminiGenerate(t *testing.T) {
	api := &fakeGeminiAPI{}
	g := newTestGemini(t, api)

	out, err := g.Generate(context.Background(), "how many flights?")
	require.NoError(t, err)
	assert.Equal(t, "Two flights today.", out)

	require.Len(t, api.bodies, 1)
	assert.Contains(t, api.paths[0], "models/gemini-1.5-flash:generateContent")
	assert.Contains(t, api.bodies[0], "how many flights?")
	assert.Contains(t, api.bodies[0], `"temperature":0.2`)
}

func TestGeminiServerErrorIsReturned(t *testing.T) {
	g := newTestGemini(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
	}))

	_, err := g.Generate(context.Background(), "q")
	assert.Error(t, err)
}

func TestGeminiEmptyCandidates(t *testing.T) {
	g := newTestGemini(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))

	_, err := g.Generate(context.Background(), "q")
	assert.EqualError(t, err, "no candidates in response")
}
