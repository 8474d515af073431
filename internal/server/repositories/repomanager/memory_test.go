package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/streamdesk/internal/dbx"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryManager_SharesState(t *testing.T) {
	m := NewMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	require.NoError(t, m.Ping(ctx))

	_, err := m.Users(m.DB()).Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)

	err = m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := m.Users(tx).GetByEmail(ctx, "a@x.com")
		return err
	})
	require.NoError(t, err)
	assert.Same(t, m.Messages(nil), m.Messages(m.DB()))
	require.NoError(t, m.Close())
}

func TestMemoryRepositoryManager_WithTxPropagatesError(t *testing.T) {
	m := NewMemoryRepositoryManager()
	boom := errors.New("boom")

	err := m.WithTx(context.Background(), func(context.Context, dbx.DBTX) error { return boom })
	assert.ErrorIs(t, err, boom)
}
