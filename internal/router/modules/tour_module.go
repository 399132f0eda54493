package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	handlers "github.com/atlastrek/tours-api/internal/interface/http"
)

// TourModule wires the tour catalogue routes. Reads are public, writes are
// restricted to staff.
type TourModule struct {
	Tours     *handlers.TourHandler
	Reviews   *handlers.ReviewHandler
	Protect   gin.HandlerFunc
	MaybeAuth gin.HandlerFunc
	Restrict  func(roles ...entity.Role) gin.HandlerFunc
}

func NewTourModule(tours *handlers.TourHandler, reviews *handlers.ReviewHandler, protect, maybeAuth gin.HandlerFunc, restrict func(roles ...entity.Role) gin.HandlerFunc) *TourModule {
	return &TourModule{Tours: tours, Reviews: reviews, Protect: protect, MaybeAuth: maybeAuth, Restrict: restrict}
}

func (m *TourModule) Register(rg *gin.RouterGroup) {
	staff := m.Restrict(entity.RoleAdmin, entity.RoleLeadGuide)
	guides := m.Restrict(entity.RoleAdmin, entity.RoleLeadGuide, entity.RoleGuide)

	tours := rg.Group("/tours")

	tours.GET("", m.MaybeAuth, m.Tours.List())
	tours.GET("/top-5-cheap", m.Tours.AliasTopTours, m.Tours.List())
	tours.GET("/stats", m.Tours.Stats)
	tours.GET("/monthly-plan/:year", m.Protect, guides, m.Tours.MonthlyPlan)
	tours.GET("/search", m.Tours.Search)
	tours.GET("/:id", m.Tours.GetOne())

	tours.POST("", m.Protect, staff, m.Tours.Create)
	tours.PATCH("/:id", m.Protect, staff, m.Tours.Update)
	tours.PATCH("/:id/images", m.Protect, staff, m.Tours.UploadImages)
	tours.DELETE("/:id", m.Protect, staff, m.Tours.Delete)

	// Nested reviews.
	tours.GET("/:id/reviews", m.Reviews.List("id"))
	tours.POST("/:id/reviews", m.Protect, m.Restrict(entity.RoleUser), m.Reviews.Create)
}
