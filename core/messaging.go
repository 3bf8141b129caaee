package core

import "context"

// Messenger is any service that can deliver a notification to school users
// through the messaging platform. An error means the message was not
// delivered; callers log and drop. Retries, if any, belong to the
// implementation.
type Messenger interface {
	Send(ctx context.Context, recipientIDs []string, title, text string) error
}
