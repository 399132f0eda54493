package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlastrek/tours-api/internal/domain/entity"
)

var bookingColumns = []string{
	"id", "tour_id", "user_id", "price", "paid", "created_at", "updated_at",
}

type BookingRepository struct {
	collection[entity.Booking]
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{collection: newCollection[entity.Booking](pool, "bookings", bookingColumns)}
}

func (r *BookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (tour_id, user_id, price, paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, b.TourID, b.UserID, b.Price, b.Paid)
	return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) FindByUser(ctx context.Context, userID string) ([]entity.Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+r.visibleColumns()+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	docs, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[entity.Booking])
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []entity.Booking{}
	}
	return docs, nil
}
