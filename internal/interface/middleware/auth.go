package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/helpers"
)

// Context keys set on successful authentication.
const (
	CtxUserKey   = "currentUser"
	CtxUserIDKey = "userID"
)

// tokenFromRequest extracts the credential from the Authorization header or
// the token cookie.
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if t, err := c.Cookie(helpers.TokenCookie); err == nil {
		return t
	}
	return ""
}

// resolvePrincipal runs the full credential check: signature and expiry,
// principal existence among active accounts, and credential staleness
// against the last password change.
func resolvePrincipal(c *gin.Context, users repository.UserRepository, jwt *helpers.JWTManager) (*entity.User, error) {
	token := tokenFromRequest(c)
	if token == "" {
		return nil, apierror.New(apierror.Unauthenticated, "you are not logged in, please log in to get access")
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return nil, err // normalized into expired/invalid-token downstream
	}
	u, err := users.FindActiveByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apierror.New(apierror.Unauthenticated, "the user belonging to this token no longer exists")
		}
		return nil, err
	}
	if claims.IssuedAt != nil && u.PasswordChangedAfter(claims.IssuedAt.Time) {
		return nil, apierror.New(apierror.Unauthenticated, "user recently changed password, please log in again")
	}
	return u, nil
}

// Protect rejects the request unless a valid credential resolves to an
// active principal, which is then attached to the context.
func Protect(users repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolvePrincipal(c, users, jwt)
		if err != nil {
			apierror.Respond(c, logger, env, err)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// MaybeAuth is the soft variant: every rejection branch continues with no
// principal attached, so the route serves anonymous and authenticated
// callers alike.
func MaybeAuth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, err := resolvePrincipal(c, users, jwt); err == nil {
			c.Set(CtxUserKey, u)
			c.Set(CtxUserIDKey, u.ID)
		}
		c.Next()
	}
}

// CurrentUser returns the principal attached by Protect or MaybeAuth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
