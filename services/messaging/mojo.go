package msgsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/edusight/backend/core"
)

const messageEndpoint = "/messaging/message"

type mojoService struct {
	baseURL string
	token   string
	client  *http.Client
	logger  core.Logger
}

var _ core.Messenger = (*mojoService)(nil)

// NewMojoService talks to the Mojo messaging platform. Messages land in the
// school app inboxes of the given user IDs.
func NewMojoService(conf *core.Config, logger core.Logger) *mojoService {
	return &mojoService{
		baseURL: conf.Mojo.BaseURL,
		token:   conf.Mojo.Token,
		client:  &http.Client{Timeout: conf.Mojo.Timeout},
		logger:  logger,
	}
}

type mojoMessage struct {
	UserIDs []string `json:"userIds"`
	Title   string   `json:"title"`
	Text    string   `json:"text"`
}

func (svc *mojoService) Send(ctx context.Context, recipientIDs []string, title, text string) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	body, err := json.Marshal(mojoMessage{UserIDs: recipientIDs, Title: title, Text: text})
	if err != nil {
		return errors.Wrap(err, "encoding message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+messageEndpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+svc.token)

	res, err := svc.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode >= http.StatusBadRequest {
		resBody, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return errors.Errorf("sending message - status: %d - Body: %s", res.StatusCode, resBody)
	}

	svc.logger.Debug("message delivered", "recipients", len(recipientIDs), "title", title)
	return nil
}
