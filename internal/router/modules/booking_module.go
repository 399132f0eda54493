package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	handlers "github.com/atlastrek/tours-api/internal/interface/http"
)

// BookingModule wires the hosted-checkout flow and the admin booking CRUD.
type BookingModule struct {
	Bookings *handlers.BookingHandler
	Protect  gin.HandlerFunc
	Restrict func(roles ...entity.Role) gin.HandlerFunc
}

func NewBookingModule(bookings *handlers.BookingHandler, protect gin.HandlerFunc, restrict func(roles ...entity.Role) gin.HandlerFunc) *BookingModule {
	return &BookingModule{Bookings: bookings, Protect: protect, Restrict: restrict}
}

func (m *BookingModule) Register(rg *gin.RouterGroup) {
	staff := m.Restrict(entity.RoleAdmin, entity.RoleLeadGuide)

	bookings := rg.Group("/bookings")

	// The checkout success redirect arrives unauthenticated.
	bookings.GET("/complete", m.Bookings.Complete)

	bookings.GET("/checkout-session/:tourId", m.Protect, m.Bookings.CheckoutSession)

	rg.GET("/me/bookings", m.Protect, m.Bookings.MyBookings)

	admin := rg.Group("/bookings")
	admin.Use(m.Protect, staff)
	{
		admin.GET("", m.Bookings.List())
		admin.GET("/:id", m.Bookings.GetOne())
		admin.POST("", m.Bookings.Create())
		admin.PATCH("/:id", m.Bookings.Update())
		admin.DELETE("/:id", m.Bookings.Delete())
	}
}
