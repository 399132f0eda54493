package repository

import (
	"context"

	"github.com/atlastrek/tours-api/internal/domain/entity"
)

type BookingRepository interface {
	Collection[entity.Booking]

	FindByUser(ctx context.Context, userID string) ([]entity.Booking, error)
}
