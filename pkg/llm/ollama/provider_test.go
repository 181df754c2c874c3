package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hr-helpdesk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProviderChat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: " 21 days. "}, Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	out, err := p.Chat(context.Background(),
		[]llm.Message{{Role: "system", Content: "be brief"}, {Role: "model", Content: "ok"}},
		llm.WithTemperature(0), llm.WithMaxTokens(512))
	require.NoError(t, err)

	assert.Equal(t, "21 days.", out)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, 0.0, got.Options.Temperature)
	assert.Equal(t, 512, got.Options.NumPredict)
}

func TestOllamaProviderErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "hi")
		assert.ErrorContains(t, err, "status 404")
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(chatResponse{Done: true})
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "hi")
		assert.ErrorIs(t, err, llm.ErrEmptyResponse)
	})
}
