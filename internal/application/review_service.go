package application

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
)

// ReviewService owns the one cross-entity invariant: the parent tour's
// cached rating aggregate is recomputed from scratch after every review
// write. Concurrent writers can race; the next write converges again.
type ReviewService struct {
	Reviews repository.ReviewRepository
	Tours   repository.TourRepository
	Logger  *logrus.Logger
}

func NewReviewService(reviews repository.ReviewRepository, tours repository.TourRepository, logger *logrus.Logger) *ReviewService {
	return &ReviewService{Reviews: reviews, Tours: tours, Logger: logger}
}

func (s *ReviewService) Create(ctx context.Context, rev *entity.Review) error {
	if err := s.Reviews.Create(ctx, rev); err != nil {
		return err
	}
	return s.RecomputeTourRatings(ctx, rev.TourID)
}

func (s *ReviewService) Update(ctx context.Context, id string, patch map[string]any) (*entity.Review, error) {
	rev, err := s.Reviews.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if err := s.RecomputeTourRatings(ctx, rev.TourID); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	rev, err := s.Reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Reviews.DeleteByID(ctx, id); err != nil {
		return err
	}
	return s.RecomputeTourRatings(ctx, rev.TourID)
}

// RecomputeTourRatings writes the true aggregate over all reviews of the
// tour back onto the tour document, falling back to the documented defaults
// when the last review is gone.
func (s *ReviewService) RecomputeTourRatings(ctx context.Context, tourID string) error {
	quantity, average, found, err := s.Reviews.RatingStats(ctx, tourID)
	if err != nil {
		return err
	}
	if !found {
		quantity = entity.DefaultRatingsQuantity
		average = entity.DefaultRatingsAverage
	} else {
		average = math.Round(average*10) / 10
	}
	err = s.Tours.UpdateRatingStats(ctx, tourID, quantity, average)
	if errors.Is(err, pgx.ErrNoRows) {
		// Tour deleted underneath us; nothing left to converge.
		return nil
	}
	return err
}
