package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/application"
	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/interface/middleware"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/helpers"
	"github.com/atlastrek/tours-api/pkg/response"
)

// AuthHandler serves the credential lifecycle: signup, login, logout and the
// password flows.
type AuthHandler struct {
	Base
	Auth    *application.AuthService
	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager
}

func NewAuthHandler(base Base, auth *application.AuthService, jwt *helpers.JWTManager, cookies *helpers.CookieManager) *AuthHandler {
	return &AuthHandler{Base: base, Auth: auth, JWT: jwt, Cookies: cookies}
}

// sendToken issues a fresh JWT for the user, mirrors it into the auth cookie
// and writes the success envelope.
func (h *AuthHandler) sendToken(c *gin.Context, status int, user *entity.User) {
	token, expires, err := h.JWT.Generate(user.ID)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Cookies.SetToken(c, token, expires)
	response.Success(c, status, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var body struct {
		Name            string `json:"name" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,pwd"`
		ConfirmPassword string `json:"password_confirm" binding:"required"`
		Role            string `json:"role" binding:"omitempty,oneof=user guide lead-guide"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.Fail(c, err)
		return
	}
	user, err := h.Auth.Signup(c.Request.Context(), application.SignupInput{
		Name:            body.Name,
		Email:           body.Email,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		Role:            entity.Role(body.Role),
	})
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.sendToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Fail(c, err)
		return
	}
	user, err := h.Auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, user)
}

// Logout clears the auth cookie. Bearer clients simply drop their token.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, "logged out")
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Fail(c, err)
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), in.Email); err != nil {
		h.Fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "token sent to email")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in struct {
		Password        string `json:"password" binding:"required,pwd"`
		ConfirmPassword string `json:"password_confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Fail(c, err)
		return
	}
	user, err := h.Auth.ResetPassword(c.Request.Context(), c.Param("token"), in.Password, in.ConfirmPassword)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, user)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		h.Fail(c, apierror.New(apierror.Unauthenticated, "you are not logged in, please log in to get access"))
		return
	}
	var in struct {
		CurrentPassword string `json:"password_current" binding:"required"`
		Password        string `json:"password" binding:"required,pwd"`
		ConfirmPassword string `json:"password_confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Fail(c, err)
		return
	}
	updated, err := h.Auth.UpdatePassword(c.Request.Context(), user.ID, in.CurrentPassword, in.Password, in.ConfirmPassword)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, updated)
}
