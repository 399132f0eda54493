package repository

import (
	"context"
	"time"

	"github.com/atlastrek/tours-api/internal/domain/entity"
)

// UserRepository resolves principals. The Active* lookups feed
// authentication and must never return soft-deleted accounts; the inherited
// Collection methods are the administrative surface and see every account.
type UserRepository interface {
	Collection[entity.User]

	FindActiveByEmail(ctx context.Context, email string) (*entity.User, error)
	FindActiveByID(ctx context.Context, id string) (*entity.User, error)

	// FindByResetToken matches a stored reset-token digest whose expiry is
	// still after now.
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*entity.User, error)
}
