package repository

import (
	"context"

	"github.com/atlastrek/tours-api/internal/domain/entity"
)

type ReviewRepository interface {
	Collection[entity.Review]

	// RatingStats aggregates count and average rating over every review of
	// the tour. found is false when the tour has no reviews at all.
	RatingStats(ctx context.Context, tourID string) (quantity int, average float64, found bool, err error)
}
