package llmsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/edusight/backend/core"
)

const completionsEndpoint = "/chat/completions"

type deepseekService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

var _ core.TextGenerator = (*deepseekService)(nil)

// NewDeepseekService generates text through an OpenAI-compatible chat
// completions API (DeepSeek by default).
func NewDeepseekService(conf *core.Config) *deepseekService {
	return &deepseekService{
		baseURL: conf.LLM.BaseURL,
		apiKey:  conf.LLM.APIKey,
		model:   conf.LLM.Model,
		client:  &http.Client{Timeout: conf.LLM.Timeout},
	}
}

type (
	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	chatRequest struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}

	chatResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error,omitempty"`
	}
)

func (svc *deepseekService) Generate(ctx context.Context, prompt, systemContext string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if systemContext != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemContext})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{Model: svc.model, Messages: messages})
	if err != nil {
		return "", errors.Wrap(err, "encoding completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+completionsEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if svc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+svc.apiKey)
	}

	res, err := svc.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "requesting completion")
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode >= http.StatusBadRequest {
		resBody, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", errors.Errorf("requesting completion - status: %d - Body: %s", res.StatusCode, resBody)
	}

	var parsed chatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", errors.Wrap(err, "decoding completion response")
	}
	if parsed.Error != nil {
		return "", errors.New(parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
