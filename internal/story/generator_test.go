package story

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completionBody(text string) string {
	return `{"choices":[{"message":{"content":` + mustQuote(text) + `}}]}`
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateWithoutKeyUsesTemplate(t *testing.T) {
	var calls atomic.Int32
	srv := completionServer(t, http.StatusOK, completionBody("remote text"), &calls)

	g := New(Options{BaseURL: srv.URL}, zerolog.Nop())
	got := g.Generate(context.Background(), janeDoe())

	assert.Equal(t, Template(janeDoe()), got)
	assert.Zero(t, calls.Load(), "no network call should be made without a key")
}

func TestGenerateReturnsTrimmedCompletion(t *testing.T) {
	srv := completionServer(t, http.StatusOK, completionBody("\n  A hard-fought clay battle.  \n"), nil)

	g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
	got := g.Generate(context.Background(), janeDoe())

	assert.Equal(t, "A hard-fought clay battle.", got)
}

func TestGeneratePromptCarriesMatchFields(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = req.Messages[1].Content
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
	g.Generate(context.Background(), janeDoe())

	for _, want := range []string{
		"Jane Doe", "intermediate", "win", "clay",
		"high", "medium", "Serve, Footwork", "None specified",
		"Broke serve in final set",
	} {
		assert.Contains(t, seen, want)
	}
}

func TestGenerateEmptyCompletionReturnsSentinel(t *testing.T) {
	t.Run("blank text", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, completionBody("   "), nil)
		g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
		assert.Equal(t, "Unable to generate story.", g.Generate(context.Background(), janeDoe()))
	})

	t.Run("no choices", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"choices":[]}`, nil)
		g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
		assert.Equal(t, "Unable to generate story.", g.Generate(context.Background(), janeDoe()))
	})
}

func TestGenerateFallsBackOnFailure(t *testing.T) {
	want := Template(janeDoe())

	t.Run("non-2xx status", func(t *testing.T) {
		srv := completionServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, nil)
		g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
		assert.Equal(t, want, g.Generate(context.Background(), janeDoe()))
	})

	t.Run("malformed response body", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{not json`, nil)
		g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
		assert.Equal(t, want, g.Generate(context.Background(), janeDoe()))
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())
		assert.Equal(t, want, g.Generate(context.Background(), janeDoe()))
	})
}

func TestGenerateNeverReturnsEmpty(t *testing.T) {
	srv := completionServer(t, http.StatusOK, completionBody("text"), nil)
	g := New(Options{APIKey: "test-key", BaseURL: srv.URL}, zerolog.Nop())

	got := g.Generate(context.Background(), janeDoe())
	assert.NotEmpty(t, strings.TrimSpace(got))
}
