package entity

import "time"

// Tour difficulty levels.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Rating defaults applied when a tour has no reviews.
const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// Tour is a bookable tour. RatingsAverage/RatingsQuantity are a cached
// aggregate over the tour's reviews, recomputed on every review write.
type Tour struct {
	ID              string      `db:"id" json:"id"`
	Name            string      `db:"name" json:"name"`
	Slug            string      `db:"slug" json:"slug"`
	Duration        int         `db:"duration" json:"duration"`
	MaxGroupSize    int         `db:"max_group_size" json:"max_group_size"`
	Difficulty      string      `db:"difficulty" json:"difficulty"`
	RatingsAverage  float64     `db:"ratings_average" json:"ratings_average"`
	RatingsQuantity int         `db:"ratings_quantity" json:"ratings_quantity"`
	Price           float64     `db:"price" json:"price"`
	PriceDiscount   *float64    `db:"price_discount" json:"price_discount,omitempty"`
	Summary         string      `db:"summary" json:"summary"`
	Description     string      `db:"description" json:"description"`
	ImageCover      string      `db:"image_cover" json:"image_cover"`
	Images          []string    `db:"images" json:"images"`
	StartDates      []time.Time `db:"start_dates" json:"start_dates"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}
