// Package users declares the user repository contract and its PostgreSQL
// and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/streamdesk/internal/server/models"
)

// Repository stores User records.
type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A duplicate email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by exact email; absence is common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns every user's id and email ordered by email.
	List(ctx context.Context) ([]models.Recipient, error)
}
