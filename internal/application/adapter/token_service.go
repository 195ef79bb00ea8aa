package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rendiconti/backend/internal/domain/entity"
)

// TokenClaims represents the claims contained in an access token.
type TokenClaims struct {
	UserID    uuid.UUID
	EntityID  uuid.UUID
	Email     string
	Role      entity.Role
	ExpiresAt time.Time
}

// Actor converts the claims into the request actor.
func (c *TokenClaims) Actor() entity.Actor {
	return entity.Actor{
		UserID:   c.UserID,
		EntityID: c.EntityID,
		Email:    c.Email,
		Role:     c.Role,
	}
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	// IssueToken signs an access token for the actor.
	IssueToken(ctx context.Context, actor entity.Actor) (string, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
