package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
)

var tourColumns = []string{
	"id", "name", "slug", "duration", "max_group_size", "difficulty",
	"ratings_average", "ratings_quantity", "price", "price_discount",
	"summary", "description", "image_cover", "images", "start_dates",
	"created_at", "updated_at",
}

type TourRepository struct {
	collection[entity.Tour]
}

func NewTourRepository(pool *pgxpool.Pool) *TourRepository {
	return &TourRepository{collection: newCollection[entity.Tour](pool, "tours", tourColumns)}
}

func (r *TourRepository) Create(ctx context.Context, t *entity.Tour) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tours (name, slug, duration, max_group_size, difficulty,
		                   ratings_average, ratings_quantity, price, price_discount,
		                   summary, description, image_cover, images, start_dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, ratings_average, ratings_quantity, created_at, updated_at
	`, t.Name, t.Slug, t.Duration, t.MaxGroupSize, t.Difficulty,
		entity.DefaultRatingsAverage, entity.DefaultRatingsQuantity,
		t.Price, t.PriceDiscount, t.Summary, t.Description, t.ImageCover,
		t.Images, t.StartDates)
	return row.Scan(&t.ID, &t.RatingsAverage, &t.RatingsQuantity, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TourRepository) FindBySlug(ctx context.Context, slug string) (*entity.Tour, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+r.visibleColumns()+` FROM tours WHERE slug = $1`, slug)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[entity.Tour])
}

func (r *TourRepository) UpdateRatingStats(ctx context.Context, tourID string, quantity int, average float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tours
		SET ratings_quantity = $1, ratings_average = $2, updated_at = now()
		WHERE id = $3
	`, quantity, average, tourID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TourRepository) Stats(ctx context.Context) ([]repository.TourStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT upper(difficulty)               AS difficulty,
		       count(*)::int                   AS num_tours,
		       coalesce(sum(ratings_quantity), 0)::int AS num_ratings,
		       avg(ratings_average)::float8    AS avg_rating,
		       avg(price)::float8              AS avg_price,
		       min(price)::float8              AS min_price,
		       max(price)::float8              AS max_price
		FROM tours
		WHERE ratings_average >= 4.5
		GROUP BY upper(difficulty)
		ORDER BY avg_price
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[repository.TourStats])
}

func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthPlan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT extract(month FROM d)::int AS month,
		       count(*)::int             AS num_tours,
		       array_agg(name)           AS tours
		FROM tours, unnest(start_dates) AS d
		WHERE d >= make_date($1, 1, 1) AND d < make_date($1 + 1, 1, 1)
		GROUP BY 1
		ORDER BY num_tours DESC
	`, year)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[repository.MonthPlan])
}
