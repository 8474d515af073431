package messages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/dmitrijs2005/streamdesk/internal/dbx"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateSent(ctx context.Context, msg *models.SentMessage) (*models.SentMessage, error) {
	query := `
		INSERT INTO sent_messages (from_user_id, to_email, subject, body, is_system)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, sent_at
	`
	err := r.db.QueryRowContext(ctx, query,
		msg.FromUserID, msg.ToEmail, msg.Subject, msg.Body, msg.IsSystem).Scan(&msg.ID, &msg.SentAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

func (r *PostgresRepository) CreateInbox(ctx context.Context, msg *models.InboxMessage) (*models.InboxMessage, error) {
	query := `
		INSERT INTO inbox_messages (user_id, from_email, subject, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, received_at, is_read
	`
	err := r.db.QueryRowContext(ctx, query,
		msg.UserID, msg.FromEmail, msg.Subject, msg.Body).Scan(&msg.ID, &msg.ReceivedAt, &msg.IsRead)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

func (r *PostgresRepository) ListSent(ctx context.Context, userID string) ([]models.SentMessage, error) {
	query := `
		SELECT id, from_user_id, to_email, subject, body, sent_at, is_system
		FROM sent_messages
		WHERE from_user_id = $1
		ORDER BY sent_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.SentMessage{}
	for rows.Next() {
		var m models.SentMessage
		if err := rows.Scan(&m.ID, &m.FromUserID, &m.ToEmail, &m.Subject, &m.Body, &m.SentAt, &m.IsSystem); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListInbox(ctx context.Context, userID string) ([]models.InboxMessage, error) {
	query := `
		SELECT id, user_id, from_email, subject, body, received_at, is_read
		FROM inbox_messages
		WHERE user_id = $1
		ORDER BY received_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.InboxMessage{}
	for rows.Next() {
		var m models.InboxMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.FromEmail, &m.Subject, &m.Body, &m.ReceivedAt, &m.IsRead); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, userID, messageID string) error {
	query := `
		UPDATE inbox_messages SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, messageID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
