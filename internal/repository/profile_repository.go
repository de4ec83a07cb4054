package repository

import (
	"context"
	"errors"
	"push-service/internal/models"
)

// ErrMalformedProfile marks a profile record whose token field cannot be read.
var ErrMalformedProfile = errors.New("malformed profile record")

// IProfileRepository is a read-only view over user profiles and their device
// tokens. Implementations must be safe for concurrent use.
type IProfileRepository interface {
	// GetAll returns every profile. Profiles without a token are included
	// with an empty FCMToken.
	GetAll(ctx context.Context) ([]models.UserProfile, error)
	// GetByID returns nil, nil when the profile does not exist.
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)
}
