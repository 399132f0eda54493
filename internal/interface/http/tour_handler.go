package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/application"
	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/response"
)

// TourHandler serves the tour catalogue: CRUD, the top-5 alias, stats,
// monthly plan, full-text search and cover uploads.
type TourHandler struct {
	Base
	Tours   repository.TourRepository
	Service *application.TourService
}

func NewTourHandler(base Base, tours repository.TourRepository, svc *application.TourService) *TourHandler {
	return &TourHandler{Base: base, Tours: tours, Service: svc}
}

type tourInput struct {
	Name          string      `json:"name" binding:"required,min=5,max=60"`
	Duration      int         `json:"duration" binding:"required,gt=0"`
	MaxGroupSize  int         `json:"max_group_size" binding:"required,gt=0"`
	Difficulty    string      `json:"difficulty" binding:"required,oneof=easy medium difficult"`
	Price         float64     `json:"price" binding:"required,gt=0"`
	PriceDiscount *float64    `json:"price_discount" binding:"omitempty,gt=0,ltfield=Price"`
	Summary       string      `json:"summary" binding:"required"`
	Description   string      `json:"description"`
	ImageCover    string      `json:"image_cover"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"start_dates"`
}

// AliasTopTours pre-seeds the query string so the generic list handler
// renders the five best-rated cheap tours.
func (h *TourHandler) AliasTopTours(c *gin.Context) {
	v := url.Values{}
	v.Set("limit", "5")
	v.Set("sort", "-ratings_average,price")
	v.Set("fields", "name,price,ratings_average,summary,difficulty")
	c.Request.URL.RawQuery = v.Encode()
	c.Next()
}

func (h *TourHandler) List() gin.HandlerFunc {
	return List[entity.Tour](&h.Base, h.Tours, nil)
}

func (h *TourHandler) GetOne() gin.HandlerFunc {
	return GetOne[entity.Tour](&h.Base, h.Tours)
}

func (h *TourHandler) Create(c *gin.Context) {
	var in tourInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Fail(c, err)
		return
	}
	tour := &entity.Tour{
		Name:          in.Name,
		Duration:      in.Duration,
		MaxGroupSize:  in.MaxGroupSize,
		Difficulty:    in.Difficulty,
		Price:         in.Price,
		PriceDiscount: in.PriceDiscount,
		Summary:       in.Summary,
		Description:   in.Description,
		ImageCover:    in.ImageCover,
		Images:        in.Images,
		StartDates:    in.StartDates,
	}
	if err := h.Service.Create(c.Request.Context(), tour); err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"doc": tour})
}

var tourUpdatable = map[string]bool{
	"name": true, "duration": true, "max_group_size": true, "difficulty": true,
	"price": true, "price_discount": true, "summary": true, "description": true,
	"image_cover": true, "images": true, "start_dates": true,
}

func (h *TourHandler) Update(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Fail(c, apierror.Wrap(apierror.Validation, "invalid payload", err))
		return
	}
	patch := make(map[string]any, len(body))
	for k, v := range body {
		if tourUpdatable[k] {
			patch[k] = v
		}
	}
	tour, err := h.Service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doc": tour})
}

func (h *TourHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *TourHandler) Stats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

func (h *TourHandler) MonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.Fail(c, apierror.New(apierror.Validation, "year must be a number"))
		return
	}
	plan, err := h.Service.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

func (h *TourHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		h.Fail(c, apierror.New(apierror.Validation, "query parameter q is required"))
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))
	hits, err := h.Service.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.List(c, http.StatusOK, len(hits), gin.H{"docs": hits})
}

// UploadImages stores the tour images from a multipart form: one optional
// "image_cover" file and any number of "images" files.
func (h *TourHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.Fail(c, apierror.Wrap(apierror.Validation, "multipart form expected", err))
		return
	}

	var cover *application.ImageUpload
	var gallery []application.ImageUpload
	var closers []interface{ Close() error }
	defer func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}()

	if files := form.File["image_cover"]; len(files) > 0 {
		src, err := files[0].Open()
		if err != nil {
			h.Fail(c, err)
			return
		}
		closers = append(closers, src)
		cover = &application.ImageUpload{
			Reader:      src,
			Filename:    files[0].Filename,
			ContentType: files[0].Header.Get("Content-Type"),
		}
	}
	for _, f := range form.File["images"] {
		src, err := f.Open()
		if err != nil {
			h.Fail(c, err)
			return
		}
		closers = append(closers, src)
		gallery = append(gallery, application.ImageUpload{
			Reader:      src,
			Filename:    f.Filename,
			ContentType: f.Header.Get("Content-Type"),
		})
	}

	tour, err := h.Service.UploadImages(c.Request.Context(), c.Param("id"), cover, gallery)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doc": tour})
}
