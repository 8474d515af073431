package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/streamdesk/internal/dbx"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/messages"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/users"
)

// MemoryRepositoryManager serves one shared set of in-memory repositories.
// The db argument of the factories is ignored.
//
// WithTx serialises callers but cannot roll back: writes made by fn before
// it fails stay visible.
type MemoryRepositoryManager struct {
	txMu     sync.Mutex
	users    *users.MemoryRepository
	messages *messages.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		messages: messages.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) DB() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Messages(dbx.DBTX) messages.Repository { return m.messages }

func (m *MemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
