package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/container"
	handlers "github.com/atlastrek/tours-api/internal/interface/http"
	"github.com/atlastrek/tours-api/internal/interface/middleware"
)

// UserModule wires the credential lifecycle and user routes.
type UserModule struct {
	Auth    *handlers.AuthHandler
	Users   *handlers.UserHandler
	Protect gin.HandlerFunc
	Admin   gin.HandlerFunc
}

func NewUserModule(auth *handlers.AuthHandler, users *handlers.UserHandler, protect, admin gin.HandlerFunc) *UserModule {
	return &UserModule{Auth: auth, Users: users, Protect: protect, Admin: admin}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints carry tight IP-based rate limits.
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/users")

	users.POST("/signup", loginLimiter, m.Auth.Signup)
	users.POST("/login", loginLimiter, m.Auth.Login)
	users.GET("/logout", m.Auth.Logout)
	users.POST("/forgot-password", resetLimiter, m.Auth.ForgotPassword)
	users.PATCH("/reset-password/:token", resetLimiter, m.Auth.ResetPassword)

	self := rg.Group("/users")
	self.Use(m.Protect)
	{
		self.PATCH("/update-password", m.Auth.UpdatePassword)
		self.GET("/me", m.Users.GetMe)
		self.PATCH("/me", m.Users.UpdateMe)
		self.DELETE("/me", m.Users.DeleteMe)
		self.PATCH("/me/photo", m.Users.UploadPhoto)
	}

	admin := rg.Group("/users")
	admin.Use(m.Protect, m.Admin)
	{
		admin.GET("", m.Users.List())
		admin.GET("/:id", m.Users.GetOne())
		admin.PATCH("/:id", m.Users.Update())
		admin.DELETE("/:id", m.Users.Delete())
	}
}
