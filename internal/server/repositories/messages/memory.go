package messages

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps both projections in slices in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	sent  []models.SentMessage
	inbox []models.InboxMessage
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepository) CreateSent(_ context.Context, msg *models.SentMessage) (*models.SentMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.SentAt = r.now()
	r.sent = append(r.sent, *msg)
	return msg, nil
}

func (r *MemoryRepository) CreateInbox(_ context.Context, msg *models.InboxMessage) (*models.InboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.ReceivedAt = r.now()
	msg.IsRead = false
	r.inbox = append(r.inbox, *msg)
	return msg, nil
}

func (r *MemoryRepository) ListSent(_ context.Context, userID string) ([]models.SentMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.SentMessage{}
	for i := len(r.sent) - 1; i >= 0; i-- {
		m := r.sent[i]
		if m.FromUserID != nil && *m.FromUserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

func (r *MemoryRepository) ListInbox(_ context.Context, userID string) ([]models.InboxMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.InboxMessage{}
	for i := len(r.inbox) - 1; i >= 0; i-- {
		if r.inbox[i].UserID == userID {
			out = append(out, r.inbox[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

func (r *MemoryRepository) MarkRead(_ context.Context, userID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.inbox {
		if r.inbox[i].ID == messageID && r.inbox[i].UserID == userID {
			r.inbox[i].IsRead = true
			return nil
		}
	}
	return common.ErrorNotFound
}
