package application

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/internal/infrastructure/payment"
	"github.com/atlastrek/tours-api/pkg/apierror"
)

type BookingService struct {
	Bookings repository.BookingRepository
	Tours    repository.TourRepository
	Provider payment.CheckoutProvider
	Logger   *logrus.Logger

	FrontendURL string
	Currency    string
}

func NewBookingService(bookings repository.BookingRepository, tours repository.TourRepository, provider payment.CheckoutProvider, logger *logrus.Logger, frontendURL, currency string) *BookingService {
	return &BookingService{
		Bookings:    bookings,
		Tours:       tours,
		Provider:    provider,
		Logger:      logger,
		FrontendURL: frontendURL,
		Currency:    currency,
	}
}

// CheckoutSession creates a hosted checkout session for one tour. The
// success URL carries the parameters CompleteCheckout consumes.
func (s *BookingService) CheckoutSession(ctx context.Context, tourID string, u *entity.User) (*payment.Session, error) {
	tour, err := s.Tours.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if s.Provider == nil {
		return nil, apierror.New(apierror.UpstreamFailure, "payments are not configured")
	}
	session, err := s.Provider.CreateSession(ctx, payment.CheckoutParams{
		ClientReference: tour.ID,
		CustomerEmail:   u.Email,
		ProductName:     tour.Name + " Tour",
		Description:     tour.Summary,
		AmountCents:     int64(math.Round(tour.Price * 100)),
		Currency:        s.Currency,
		SuccessURL: fmt.Sprintf("%s/api/v1/bookings/complete?tour=%s&user=%s&price=%g",
			s.FrontendURL, tour.ID, u.ID, tour.Price),
		CancelURL: fmt.Sprintf("%s/tour/%s", s.FrontendURL, tour.Slug),
	})
	if err != nil {
		return nil, apierror.Wrap(apierror.UpstreamFailure, "could not create checkout session", err)
	}
	return session, nil
}

// CompleteCheckout records the paid booking from the success-redirect
// parameters.
func (s *BookingService) CompleteCheckout(ctx context.Context, tourID, userID string, price float64) (*entity.Booking, error) {
	b := &entity.Booking{TourID: tourID, UserID: userID, Price: price, Paid: true}
	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) MyBookings(ctx context.Context, userID string) ([]entity.Booking, error) {
	return s.Bookings.FindByUser(ctx, userID)
}
