package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/application"
	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/internal/interface/middleware"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/response"
)

// BookingHandler serves the hosted-checkout flow and the admin booking CRUD.
type BookingHandler struct {
	Base
	Bookings repository.BookingRepository
	Service  *application.BookingService
}

func NewBookingHandler(base Base, bookings repository.BookingRepository, svc *application.BookingService) *BookingHandler {
	return &BookingHandler{Base: base, Bookings: bookings, Service: svc}
}

// CheckoutSession creates a hosted payment session for the tour and hands
// its redirect URL back to the client.
func (h *BookingHandler) CheckoutSession(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Fail(c, apierror.New(apierror.Unauthenticated, "you are not logged in, please log in to get access"))
		return
	}
	session, err := h.Service.CheckoutSession(c.Request.Context(), c.Param("tourId"), user)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Complete records a paid booking from the checkout success redirect.
func (h *BookingHandler) Complete(c *gin.Context) {
	tourID := c.Query("tour")
	userID := c.Query("user")
	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if tourID == "" || userID == "" || err != nil {
		h.Fail(c, apierror.New(apierror.Validation, "tour, user and price are required"))
		return
	}
	booking, err := h.Service.CompleteCheckout(c.Request.Context(), tourID, userID, price)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"doc": booking})
}

func (h *BookingHandler) MyBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Fail(c, apierror.New(apierror.Unauthenticated, "you are not logged in, please log in to get access"))
		return
	}
	bookings, err := h.Service.MyBookings(c.Request.Context(), user.ID)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.List(c, http.StatusOK, len(bookings), gin.H{"docs": bookings})
}

// Admin CRUD.

func (h *BookingHandler) List() gin.HandlerFunc {
	return List[entity.Booking](&h.Base, h.Bookings, nil)
}

func (h *BookingHandler) GetOne() gin.HandlerFunc {
	return GetOne[entity.Booking](&h.Base, h.Bookings)
}

func (h *BookingHandler) Create() gin.HandlerFunc {
	return CreateOne[entity.Booking](&h.Base, h.Bookings, func(c *gin.Context) (*entity.Booking, error) {
		var in struct {
			TourID string  `json:"tour_id" binding:"required"`
			UserID string  `json:"user_id" binding:"required"`
			Price  float64 `json:"price" binding:"required,gt=0"`
			Paid   bool    `json:"paid"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			return nil, err
		}
		return &entity.Booking{TourID: in.TourID, UserID: in.UserID, Price: in.Price, Paid: in.Paid}, nil
	})
}

func (h *BookingHandler) Update() gin.HandlerFunc {
	return UpdateOne[entity.Booking](&h.Base, h.Bookings, "price", "paid")
}

func (h *BookingHandler) Delete() gin.HandlerFunc {
	return DeleteOne[entity.Booking](&h.Base, h.Bookings)
}
