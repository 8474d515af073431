// Package services contains server-side business logic. This file implements
// CredentialService, which registers users and verifies their passwords.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/dmitrijs2005/streamdesk/internal/server/config"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// CredentialService stores bcrypt password hashes and checks login attempts.
type CredentialService struct {
	repomanager repomanager.RepositoryManager
	cost        int
	// dummyHash is compared against on unknown emails so that both failure
	// modes cost one bcrypt comparison.
	dummyHash []byte
}

// NewCredentialService constructs a CredentialService. The bcrypt cost is
// clamped to the range bcrypt accepts.
func NewCredentialService(m repomanager.RepositoryManager, cfg *config.Config) (*CredentialService, error) {
	cost := cfg.BcryptCost
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("streamdesk-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &CredentialService{repomanager: m, cost: cost, dummyHash: dummy}, nil
}

// Register creates a user. A taken email yields common.ErrorAlreadyExists.
func (s *CredentialService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("password too long: %w", common.ErrorValidation)
		}
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.repomanager.DB())
	u, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", common.ErrorInternal)
	}
	return u, nil
}

// Verify returns the user when password matches. Unknown email and wrong
// password both yield common.ErrorInvalidCredentials.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.repomanager.DB())
	user, err := repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorInvalidCredentials
	}
	return user, nil
}

// ListRecipients returns id and email of every user, ordered by email.
func (s *CredentialService) ListRecipients(ctx context.Context) ([]models.Recipient, error) {
	out, err := s.repomanager.Users(s.repomanager.DB()).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", common.ErrorInternal)
	}
	return out, nil
}

// FindByEmail returns the user registered under email or common.ErrorNotFound.
func (s *CredentialService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repomanager.Users(s.repomanager.DB()).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return u, nil
}
