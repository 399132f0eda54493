package repository

import (
	"context"

	"github.com/atlastrek/tours-api/internal/domain/entity"
)

// TourStats is one row of the per-difficulty aggregate.
type TourStats struct {
	Difficulty string  `db:"difficulty" json:"difficulty"`
	NumTours   int     `db:"num_tours" json:"num_tours"`
	NumRatings int     `db:"num_ratings" json:"num_ratings"`
	AvgRating  float64 `db:"avg_rating" json:"avg_rating"`
	AvgPrice   float64 `db:"avg_price" json:"avg_price"`
	MinPrice   float64 `db:"min_price" json:"min_price"`
	MaxPrice   float64 `db:"max_price" json:"max_price"`
}

// MonthPlan is one month of the yearly starting-tours plan.
type MonthPlan struct {
	Month    int      `db:"month" json:"month"`
	NumTours int      `db:"num_tours" json:"num_tours"`
	Tours    []string `db:"tours" json:"tours"`
}

type TourRepository interface {
	Collection[entity.Tour]

	FindBySlug(ctx context.Context, slug string) (*entity.Tour, error)

	// UpdateRatingStats writes the recomputed review aggregate back onto the
	// tour document.
	UpdateRatingStats(ctx context.Context, tourID string, quantity int, average float64) error

	Stats(ctx context.Context) ([]TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthPlan, error)
}
