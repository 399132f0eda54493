package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/application"
	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/internal/interface/middleware"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/response"
)

// ReviewHandler serves reviews both standalone and nested under a tour.
// Every write goes through the service so the tour's rating stats stay in
// step with its reviews.
type ReviewHandler struct {
	Base
	Reviews repository.ReviewRepository
	Service *application.ReviewService
}

func NewReviewHandler(base Base, reviews repository.ReviewRepository, svc *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{Base: base, Reviews: reviews, Service: svc}
}

// List scopes to the parent tour when mounted nested; tourParam is the name
// of the route parameter carrying the tour id, empty for the flat mount.
func (h *ReviewHandler) List(tourParam string) gin.HandlerFunc {
	return List[entity.Review](&h.Base, h.Reviews, func(c *gin.Context) map[string]any {
		if tourParam == "" {
			return nil
		}
		if tourID := c.Param(tourParam); tourID != "" {
			return map[string]any{"tour_id": tourID}
		}
		return nil
	})
}

func (h *ReviewHandler) GetOne() gin.HandlerFunc {
	return GetOne[entity.Review](&h.Base, h.Reviews)
}

type reviewInput struct {
	Review string  `json:"review" binding:"required"`
	Rating float64 `json:"rating" binding:"required,min=1,max=5"`
	TourID string  `json:"tour_id"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Fail(c, apierror.New(apierror.Unauthenticated, "you are not logged in, please log in to get access"))
		return
	}
	var in reviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Fail(c, err)
		return
	}
	// The nested route wins over any tour id in the body.
	tourID := c.Param("id")
	if tourID == "" {
		tourID = in.TourID
	}
	if tourID == "" {
		h.Fail(c, apierror.New(apierror.Validation, "a review must belong to a tour"))
		return
	}
	rev := &entity.Review{
		Review: in.Review,
		Rating: in.Rating,
		TourID: tourID,
		UserID: user.ID,
	}
	if err := h.Service.Create(c.Request.Context(), rev); err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"doc": rev})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Fail(c, apierror.Wrap(apierror.Validation, "invalid payload", err))
		return
	}
	patch := make(map[string]any, 2)
	for _, k := range []string{"review", "rating"} {
		if v, ok := body[k]; ok {
			patch[k] = v
		}
	}
	rev, err := h.Service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doc": rev})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Fail(c, err)
		return
	}
	response.NoContent(c)
}
