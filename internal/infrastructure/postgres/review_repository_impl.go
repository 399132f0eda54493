package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlastrek/tours-api/internal/domain/entity"
)

var reviewColumns = []string{
	"id", "review", "rating", "tour_id", "user_id", "created_at", "updated_at",
}

type ReviewRepository struct {
	collection[entity.Review]
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{collection: newCollection[entity.Review](pool, "reviews", reviewColumns)}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *entity.Review) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (review, rating, tour_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, rev.Review, rev.Rating, rev.TourID, rev.UserID)
	return row.Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
}

func (r *ReviewRepository) RatingStats(ctx context.Context, tourID string) (int, float64, bool, error) {
	var quantity int
	var average float64
	row := r.pool.QueryRow(ctx, `
		SELECT count(*)::int, coalesce(avg(rating), 0)::float8
		FROM reviews
		WHERE tour_id = $1
	`, tourID)
	if err := row.Scan(&quantity, &average); err != nil {
		return 0, 0, false, err
	}
	return quantity, average, quantity > 0, nil
}
