package llmsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/backend/core"
)

func newLLMConf(baseURL string) *core.Config {
	return &core.Config{
		LLM: core.LLMConfig{BaseURL: baseURL, APIKey: "k3y", Model: "deepseek-chat", Timeout: time.Second},
	}
}

func TestDeepseekGenerate(t *testing.T) {
	var received chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer k3y", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "A fine week overall."}},
			},
		})
	}))
	defer srv.Close()

	svc := NewDeepseekService(newLLMConf(srv.URL))
	text, err := svc.Generate(context.Background(), "summarize", "you are an assistant")
	require.NoError(t, err)
	assert.Equal(t, "A fine week overall.", text)

	require.Len(t, received.Messages, 2)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "deepseek-chat", received.Model)
}

func TestDeepseekGenerateNoSystemContext(t *testing.T) {
	var received chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	svc := NewDeepseekService(newLLMConf(srv.URL))
	_, err := svc.Generate(context.Background(), "summarize", "")
	require.NoError(t, err)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "user", received.Messages[0].Role)
}

func TestDeepseekGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"http error",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			"api error payload",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error": map[string]string{"message": "invalid model"},
				})
			},
		},
		{
			"empty choices",
			func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			svc := NewDeepseekService(newLLMConf(srv.URL))
			_, err := svc.Generate(context.Background(), "summarize", "")
			assert.Error(t, err)
		})
	}
}
