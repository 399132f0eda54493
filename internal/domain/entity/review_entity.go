package entity

import "time"

// Review belongs to one tour and one user; a user may review a tour once.
type Review struct {
	ID        string    `db:"id" json:"id"`
	Review    string    `db:"review" json:"review"`
	Rating    float64   `db:"rating" json:"rating"`
	TourID    string    `db:"tour_id" json:"tour_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
