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

// UserHandler serves the self-service /me routes plus the admin user CRUD.
type UserHandler struct {
	Base
	Users   repository.UserRepository
	Service *application.UserService
}

func NewUserHandler(base Base, users repository.UserRepository, svc *application.UserService) *UserHandler {
	return &UserHandler{Base: base, Users: users, Service: svc}
}

func (h *UserHandler) mustUser(c *gin.Context) (*entity.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Fail(c, apierror.New(apierror.Unauthenticated, "you are not logged in, please log in to get access"))
	}
	return user, ok
}

func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := h.mustUser(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doc": user})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := h.mustUser(c)
	if !ok {
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Fail(c, apierror.Wrap(apierror.Validation, "invalid payload", err))
		return
	}
	updated, err := h.Service.UpdateMe(c.Request.Context(), user.ID, body)
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doc": updated})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := h.mustUser(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteMe(c.Request.Context(), user.ID); err != nil {
		h.Fail(c, err)
		return
	}
	response.NoContent(c)
}

// UploadPhoto stores a profile image from a multipart form field named
// "photo" and records the resulting URL on the user.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	user, ok := h.mustUser(c)
	if !ok {
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		h.Fail(c, apierror.Wrap(apierror.Validation, "photo file is required", err))
		return
	}
	src, err := file.Open()
	if err != nil {
		h.Fail(c, err)
		return
	}
	defer src.Close()

	updated, err := h.Service.UploadPhoto(c.Request.Context(), user.ID, src, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		h.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doc": updated})
}

// Admin CRUD. User creation happens through signup only.

func (h *UserHandler) List() gin.HandlerFunc {
	return List[entity.User](&h.Base, h.Users, nil)
}

func (h *UserHandler) GetOne() gin.HandlerFunc {
	return GetOne[entity.User](&h.Base, h.Users)
}

func (h *UserHandler) Update() gin.HandlerFunc {
	return UpdateOne[entity.User](&h.Base, h.Users, "name", "email", "photo", "role", "active")
}

func (h *UserHandler) Delete() gin.HandlerFunc {
	return DeleteOne[entity.User](&h.Base, h.Users)
}
