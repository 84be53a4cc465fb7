package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainstorm/internal/config"
)

func newGeminiServer(t *testing.T, status int, body string) (*httptest.Server, *config.AIConfig) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &config.AIConfig{
		APIKey:  "secret",
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	_, cfg := newGeminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"{\"questions\":[]}"}]}}]}`)

	out, err := NewGeminiClient(cfg).Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"questions":[]}`, out)
}

func TestGeminiClient_StatusError(t *testing.T) {
	_, cfg := newGeminiServer(t, http.StatusTooManyRequests, `{"error":"quota"}`)

	_, err := NewGeminiClient(cfg).Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	_, cfg := newGeminiServer(t, http.StatusOK, `{"candidates":[]}`)

	_, err := NewGeminiClient(cfg).Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
