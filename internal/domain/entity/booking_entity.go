package entity

import "time"

// Booking records a paid tour booking. Price is captured at checkout time so
// later price changes do not rewrite history.
type Booking struct {
	ID        string    `db:"id" json:"id"`
	TourID    string    `db:"tour_id" json:"tour_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Price     float64   `db:"price" json:"price"`
	Paid      bool      `db:"paid" json:"paid"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
