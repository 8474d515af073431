package repomanager

import (
	"context"

	"github.com/dmitrijs2005/streamdesk/internal/dbx"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/messages"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX and owns the
// underlying store's lifecycle.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// DB returns the non-transactional handle repositories bind to by default.
	DB() dbx.DBTX
	// WithTx runs fn with a handle whose writes commit or roll back together.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
	Ping(ctx context.Context) error
	Close() error
}
