package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/atlastrek/tours-api/config"
	"github.com/atlastrek/tours-api/internal/application"
	"github.com/atlastrek/tours-api/pkg/helpers"
)

type seedTour struct {
	name       string
	duration   int
	groupSize  int
	difficulty string
	price      float64
	summary    string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, photo)
		VALUES ($1, lower($2), $3, 'admin', 'default.jpg')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, "Site Admin", email, hash).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, email, password)

	tours := []seedTour{
		{"The Forest Hiker", 5, 25, "easy", 397, "Breathtaking hike through the Canadian Banff National Park"},
		{"The Sea Explorer", 7, 15, "medium", 497, "Exploring the jaw-dropping US east coast by foot and by boat"},
		{"The Snow Adventurer", 4, 10, "difficult", 997, "Exciting adventure in the snow with snowboarding and skiing"},
	}
	for _, t := range tours {
		var id string
		err := db.QueryRow(`
			INSERT INTO tours (name, slug, duration, max_group_size, difficulty, price, summary)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (slug) DO UPDATE SET price = EXCLUDED.price
			RETURNING id
		`, t.name, application.Slugify(t.name), t.duration, t.groupSize, t.difficulty, t.price, t.summary).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed tour %q: %v", t.name, err)
		}
		fmt.Printf("seeded tour: id=%s name=%q\n", id, t.name)
	}
}
