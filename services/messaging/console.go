package msgsvc

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/edusight/backend/core"
)

type SentMessage struct {
	RecipientIDs []string
	Title        string
	Text         string
}

type consoleService struct {
	mu            sync.Mutex
	sent          []SentMessage
	disableOutput bool
}

var _ core.Messenger = (*consoleService)(nil)

// NewConsoleService logs messages instead of delivering them. Used in dev
// when no Mojo token is configured.
func NewConsoleService() *consoleService {
	return &consoleService{}
}

// NewConsoleServiceMock records messages silently for test inspection.
func NewConsoleServiceMock() *consoleService {
	return &consoleService{disableOutput: true}
}

func (svc *consoleService) Send(ctx context.Context, recipientIDs []string, title, text string) error {
	svc.mu.Lock()
	svc.sent = append(svc.sent, SentMessage{RecipientIDs: recipientIDs, Title: title, Text: text})
	svc.mu.Unlock()

	if !svc.disableOutput {
		log.Printf("To: %s\r\nTitle: %s\r\n\r\n%s\r\n", strings.Join(recipientIDs, ", "), title, text)
	}
	return nil
}

func (svc *consoleService) Sent() []SentMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]SentMessage(nil), svc.sent...)
}
