package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/pkg/helpers"
	"github.com/atlastrek/tours-api/pkg/query"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubUsers serves a single principal by id.
type stubUsers struct {
	user *entity.User
}

func (s *stubUsers) Query() *query.Definition {
	return query.New("users", []string{"id"})
}

func (s *stubUsers) FindMany(context.Context, *query.Definition) ([]entity.User, error) {
	return nil, nil
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	return s.FindActiveByID(nil, id)
}

func (s *stubUsers) Create(context.Context, *entity.User) error { return nil }

func (s *stubUsers) UpdateByID(context.Context, string, map[string]any) (*entity.User, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubUsers) DeleteByID(context.Context, string) error { return pgx.ErrNoRows }

func (s *stubUsers) FindActiveByEmail(context.Context, string) (*entity.User, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubUsers) FindActiveByID(_ context.Context, id string) (*entity.User, error) {
	if s.user != nil && s.user.ID == id && s.user.Active {
		cp := *s.user
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUsers) FindByResetToken(context.Context, string, time.Time) (*entity.User, error) {
	return nil, pgx.ErrNoRows
}

func protectedRouter(users *stubUsers, jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Protect(users, jwt, nil, "production"), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})
	r.GET("/soft", MaybeAuth(users, jwt), func(c *gin.Context) {
		if u, ok := CurrentUser(c); ok {
			c.JSON(http.StatusOK, gin.H{"id": u.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": nil})
	})
	return r
}

func TestProtectRejectsMissingToken(t *testing.T) {
	r := protectedRouter(&stubUsers{}, helpers.NewJWTManager("secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "you are not logged in")
}

func TestProtectAcceptsBearerToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	users := &stubUsers{user: &entity.User{ID: "u1", Active: true}}
	r := protectedRouter(users, jwt)

	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"u1"`)
}

func TestProtectAcceptsCookieToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	users := &stubUsers{user: &entity.User{ID: "u1", Active: true}}
	r := protectedRouter(users, jwt)

	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: helpers.TokenCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectRejectsExpiredToken(t *testing.T) {
	expired := helpers.NewJWTManager("secret", -time.Minute)
	users := &stubUsers{user: &entity.User{ID: "u1", Active: true}}
	r := protectedRouter(users, helpers.NewJWTManager("secret", time.Hour))

	token, _, err := expired.Generate("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestProtectRejectsVanishedPrincipal(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := protectedRouter(&stubUsers{}, jwt)

	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no longer exists")
}

func TestProtectRejectsStaleToken(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	changed := time.Now().Add(time.Minute)
	users := &stubUsers{user: &entity.User{ID: "u1", Active: true, PasswordChangedAt: &changed}}
	r := protectedRouter(users, jwt)

	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "recently changed password")
}

func TestMaybeAuthContinuesWithoutToken(t *testing.T) {
	r := protectedRouter(&stubUsers{}, helpers.NewJWTManager("secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/soft", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestRestrictToForbidsWrongRole(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	users := &stubUsers{user: &entity.User{ID: "u1", Active: true, Role: entity.RoleUser}}

	r := gin.New()
	r.GET("/admin",
		Protect(users, jwt, nil, "production"),
		RestrictTo(nil, "production", entity.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "you do not have permission")
}

func TestRestrictToAllowsMatchingRole(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	users := &stubUsers{user: &entity.User{ID: "u1", Active: true, Role: entity.RoleAdmin}}

	r := gin.New()
	r.GET("/admin",
		Protect(users, jwt, nil, "production"),
		RestrictTo(nil, "production", entity.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	token, _, err := jwt.Generate("u1")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
