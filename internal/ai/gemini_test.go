package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGeminiClient("test-key", "gemini-flash-latest")
	require.NoError(t, err)
	client.baseURL = srv.URL
	return client
}

func candidateResponse(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":"` + text + `"}]}}]}`
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient("  ", "gemini-flash-latest")
	assert.Error(t, err)

	_, err = NewGeminiClient("key", "")
	assert.Error(t, err)
}

func TestChatSendsHistoryAndSystemInstruction(t *testing.T) {
	var got generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(candidateResponse("olá!")))
	})

	history := []Turn{
		{Role: "user", Text: "oi"},
		{Role: "model", Text: "como posso ajudar?"},
	}
	reply, err := client.Chat(context.Background(), "seja direto", history, "quero abrir uma cafeteria", nil)
	require.NoError(t, err)
	assert.Equal(t, "olá!", reply)

	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "quero abrir uma cafeteria", got.Contents[2].Parts[0].Text)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "seja direto", got.SystemInstruction.Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, 8192, got.GenerationConfig.MaxOutputTokens)
}

func TestChatAttachesInlineImage(t *testing.T) {
	var got generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(candidateResponse("vejo um logotipo")))
	})

	img := &InlineImage{Base64: "aGVsbG8=", MimeType: "image/png"}
	_, err := client.Chat(context.Background(), "", nil, "analise esta imagem", img)
	require.NoError(t, err)

	last := got.Contents[len(got.Contents)-1]
	require.Len(t, last.Parts, 2)
	require.NotNil(t, last.Parts[1].InlineData)
	assert.Equal(t, "image/png", last.Parts[1].InlineData.MimeType)
	assert.Equal(t, "aGVsbG8=", last.Parts[1].InlineData.Data)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadRequest, ErrProviderAuth},
		{http.StatusUnauthorized, ErrProviderAuth},
		{http.StatusForbidden, ErrProviderAuth},
	}
	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error":{"message":"nope"}}`))
		})
		_, err := client.Generate(context.Background(), "prompt")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}

	// A 500 is neither rate limit nor auth.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrProviderAuth)
}

func TestGenerateEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})
	_, err := client.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestChatHonorsContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Chat(ctx, "", nil, "oi", nil)
	assert.Error(t, err)
}
