// Package messages stores the outbox (sent) and inbox (received) projections
// of messages.
package messages

import (
	"context"

	"github.com/dmitrijs2005/streamdesk/internal/server/models"
)

// Repository persists both message projections.
type Repository interface {
	// CreateSent records an outbox message and fills ID and SentAt.
	CreateSent(ctx context.Context, msg *models.SentMessage) (*models.SentMessage, error)

	// CreateInbox records an inbox message and fills ID and ReceivedAt.
	CreateInbox(ctx context.Context, msg *models.InboxMessage) (*models.InboxMessage, error)

	// ListSent returns messages sent by userID, newest first. System
	// broadcasts are never included.
	ListSent(ctx context.Context, userID string) ([]models.SentMessage, error)

	// ListInbox returns messages received by userID, newest first.
	ListInbox(ctx context.Context, userID string) ([]models.InboxMessage, error)

	// MarkRead flags one inbox message of userID as read. A message that does
	// not exist or belongs to someone else yields common.ErrorNotFound.
	MarkRead(ctx context.Context, userID, messageID string) error
}
