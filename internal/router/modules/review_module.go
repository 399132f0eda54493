package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	handlers "github.com/atlastrek/tours-api/internal/interface/http"
)

// ReviewModule wires the flat /reviews routes. Everything requires a login;
// writes are for regular users, moderation for users and admins.
type ReviewModule struct {
	Reviews  *handlers.ReviewHandler
	Protect  gin.HandlerFunc
	Restrict func(roles ...entity.Role) gin.HandlerFunc
}

func NewReviewModule(reviews *handlers.ReviewHandler, protect gin.HandlerFunc, restrict func(roles ...entity.Role) gin.HandlerFunc) *ReviewModule {
	return &ReviewModule{Reviews: reviews, Protect: protect, Restrict: restrict}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	moderate := m.Restrict(entity.RoleUser, entity.RoleAdmin)

	reviews := rg.Group("/reviews")
	reviews.Use(m.Protect)

	reviews.GET("", m.Reviews.List(""))
	reviews.GET("/:id", m.Reviews.GetOne())
	reviews.POST("", m.Restrict(entity.RoleUser), m.Reviews.Create)
	reviews.PATCH("/:id", moderate, m.Reviews.Update)
	reviews.DELETE("/:id", moderate, m.Reviews.Delete)
}
