package application

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/pkg/query"
)

type fakeReviewRepo struct {
	reviews map[string]*entity.Review
	seq     int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*entity.Review{}}
}

func (r *fakeReviewRepo) Query() *query.Definition {
	return query.New("reviews", []string{"id", "review", "rating", "tour_id", "user_id"})
}

func (r *fakeReviewRepo) FindMany(_ context.Context, _ *query.Definition) ([]entity.Review, error) {
	out := make([]entity.Review, 0, len(r.reviews))
	for _, rev := range r.reviews {
		out = append(out, *rev)
	}
	return out, nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id string) (*entity.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *rev
	return &cp, nil
}

func (r *fakeReviewRepo) Create(_ context.Context, rev *entity.Review) error {
	r.seq++
	rev.ID = "r" + strconv.Itoa(r.seq)
	cp := *rev
	r.reviews[rev.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) UpdateByID(_ context.Context, id string, patch map[string]any) (*entity.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if v, ok := patch["rating"]; ok {
		rev.Rating = v.(float64)
	}
	if v, ok := patch["review"]; ok {
		rev.Review = v.(string)
	}
	cp := *rev
	return &cp, nil
}

func (r *fakeReviewRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.reviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) RatingStats(_ context.Context, tourID string) (int, float64, bool, error) {
	var n int
	var sum float64
	for _, rev := range r.reviews {
		if rev.TourID == tourID {
			n++
			sum += rev.Rating
		}
	}
	if n == 0 {
		return 0, 0, false, nil
	}
	return n, sum / float64(n), true, nil
}

// fakeTourStats records the last aggregate written per tour.
type fakeTourStats struct {
	repository.TourRepository

	missing  map[string]bool
	quantity map[string]int
	average  map[string]float64
}

func newFakeTourStats() *fakeTourStats {
	return &fakeTourStats{
		missing:  map[string]bool{},
		quantity: map[string]int{},
		average:  map[string]float64{},
	}
}

func (f *fakeTourStats) UpdateRatingStats(_ context.Context, tourID string, quantity int, average float64) error {
	if f.missing[tourID] {
		return pgx.ErrNoRows
	}
	f.quantity[tourID] = quantity
	f.average[tourID] = average
	return nil
}

func TestCreateReviewRecomputesAggregate(t *testing.T) {
	reviews := newFakeReviewRepo()
	tours := newFakeTourStats()
	svc := NewReviewService(reviews, tours, nil)

	require.NoError(t, svc.Create(context.Background(), &entity.Review{Review: "great", Rating: 5, TourID: "t1", UserID: "u1"}))
	require.NoError(t, svc.Create(context.Background(), &entity.Review{Review: "ok", Rating: 4, TourID: "t1", UserID: "u2"}))

	assert.Equal(t, 2, tours.quantity["t1"])
	assert.Equal(t, 4.5, tours.average["t1"])
}

func TestAverageRoundsToOneDecimal(t *testing.T) {
	reviews := newFakeReviewRepo()
	tours := newFakeTourStats()
	svc := NewReviewService(reviews, tours, nil)

	require.NoError(t, svc.Create(context.Background(), &entity.Review{Rating: 5, TourID: "t1", UserID: "u1"}))
	require.NoError(t, svc.Create(context.Background(), &entity.Review{Rating: 4, TourID: "t1", UserID: "u2"}))
	require.NoError(t, svc.Create(context.Background(), &entity.Review{Rating: 4, TourID: "t1", UserID: "u3"}))

	// 13/3 = 4.333..., rounded to one decimal.
	assert.Equal(t, 4.3, tours.average["t1"])
}

func TestUpdateReviewRecomputesAggregate(t *testing.T) {
	reviews := newFakeReviewRepo()
	tours := newFakeTourStats()
	svc := NewReviewService(reviews, tours, nil)

	rev := &entity.Review{Rating: 2, TourID: "t1", UserID: "u1"}
	require.NoError(t, svc.Create(context.Background(), rev))

	_, err := svc.Update(context.Background(), rev.ID, map[string]any{"rating": 5.0})
	require.NoError(t, err)
	assert.Equal(t, 5.0, tours.average["t1"])
}

func TestDeletingLastReviewRestoresDefaults(t *testing.T) {
	reviews := newFakeReviewRepo()
	tours := newFakeTourStats()
	svc := NewReviewService(reviews, tours, nil)

	rev := &entity.Review{Rating: 2, TourID: "t1", UserID: "u1"}
	require.NoError(t, svc.Create(context.Background(), rev))
	require.NoError(t, svc.Delete(context.Background(), rev.ID))

	assert.Equal(t, entity.DefaultRatingsQuantity, tours.quantity["t1"])
	assert.Equal(t, entity.DefaultRatingsAverage, tours.average["t1"])
}

func TestRecomputeToleratesDeletedTour(t *testing.T) {
	reviews := newFakeReviewRepo()
	tours := newFakeTourStats()
	tours.missing["gone"] = true
	svc := NewReviewService(reviews, tours, nil)

	err := svc.Create(context.Background(), &entity.Review{Rating: 5, TourID: "gone", UserID: "u1"})
	assert.NoError(t, err)
}
