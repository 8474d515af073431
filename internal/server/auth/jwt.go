// Package auth issues and verifies HS256 session tokens and tracks revoked
// token ids.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrEmptySecret = errors.New("token secret must not be empty")

// Claims carries the registered claims plus the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Identity is the verified subject of a session token.
type Identity struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time // zero when the token never expires
}

// Authority signs and verifies tokens. A nil denylist disables revocation.
type Authority struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	retention time.Duration
	denylist  Denylist
	now       func() time.Time
}

// NewAuthority builds an Authority. ttl <= 0 issues tokens without expiry;
// such tokens stay revoked for DefaultRetention unless overridden with
// WithRetention.
func NewAuthority(secret, issuer string, ttl time.Duration, denylist Denylist) (*Authority, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Authority{
		secret:    []byte(secret),
		issuer:    issuer,
		ttl:       ttl,
		retention: DefaultRetention,
		denylist:  denylist,
		now:       time.Now,
	}, nil
}

// DefaultRetention bounds how long a revoked non-expiring token is remembered.
const DefaultRetention = 30 * 24 * time.Hour

func (a *Authority) WithRetention(d time.Duration) *Authority {
	if d > 0 {
		a.retention = d
	}
	return a
}

// Issue signs a fresh token for user.
func (a *Authority) Issue(user *models.User) (string, error) {
	now := a.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   a.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: user.ID,
		Email:  user.Email,
	}
	if a.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(a.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify returns the identity behind tokenString. Every failure, including a
// revoked token or an unreachable denylist, is common.ErrorUnauthorized.
func (a *Authority) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if a.denylist != nil && claims.ID != "" {
		revoked, err := a.denylist.Contains(ctx, claims.ID)
		if err != nil || revoked {
			return nil, common.ErrorUnauthorized
		}
	}

	return identityFrom(claims), nil
}

// Revoke denies tokenString until it would have expired anyway.
func (a *Authority) Revoke(ctx context.Context, tokenString string) error {
	claims, err := a.parse(tokenString)
	if err != nil {
		return err
	}
	if a.denylist == nil {
		return nil
	}

	until := a.now().Add(a.retention)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := a.denylist.Add(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	return nil
}

func (a *Authority) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, common.ErrorUnauthorized
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

func identityFrom(c *Claims) *Identity {
	id := &Identity{UserID: c.UserID, Email: c.Email, TokenID: c.ID}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}
