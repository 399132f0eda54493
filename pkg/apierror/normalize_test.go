package apierror

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePassesClassifiedErrorsThrough(t *testing.T) {
	in := New(Forbidden, "you do not have permission to perform this action")
	out := Normalize(in)
	assert.Same(t, in, out)
}

func TestNormalizeNoRows(t *testing.T) {
	out := Normalize(pgx.ErrNoRows)
	assert.Equal(t, NotFound, out.Kind)
	assert.Equal(t, http.StatusNotFound, out.Kind.Status())
}

func TestNormalizePostgresCodes(t *testing.T) {
	cases := []struct {
		code string
		want Kind
	}{
		{"23505", DuplicateKey},
		{"23503", Validation},
		{"23514", Validation},
		{"22P02", Validation},
		{"42703", Validation},
	}
	for _, tc := range cases {
		out := Normalize(&pgconn.PgError{Code: tc.code})
		assert.Equalf(t, tc.want, out.Kind, "code %s", tc.code)
	}
}

func TestNormalizeJWTErrors(t *testing.T) {
	out := Normalize(jwt.ErrTokenExpired)
	require.Equal(t, Unauthenticated, out.Kind)
	assert.Equal(t, "your token has expired, please log in again", out.Message)

	out = Normalize(jwt.ErrTokenMalformed)
	require.Equal(t, Unauthenticated, out.Kind)
	assert.Equal(t, "invalid token, please log in again", out.Message)
}

func TestNormalizeDeadline(t *testing.T) {
	out := Normalize(context.DeadlineExceeded)
	assert.Equal(t, UpstreamFailure, out.Kind)
	assert.Equal(t, http.StatusBadGateway, out.Kind.Status())
}

func TestNormalizeUnknownIsInternal(t *testing.T) {
	out := Normalize(errors.New("boom"))
	assert.Equal(t, Internal, out.Kind)
	assert.False(t, out.Operational())
}

func TestKindStatuses(t *testing.T) {
	cases := map[Kind]int{
		Validation:            http.StatusBadRequest,
		DuplicateKey:          http.StatusBadRequest,
		InvalidOrExpiredToken: http.StatusBadRequest,
		NotFound:              http.StatusNotFound,
		Unauthenticated:       http.StatusUnauthorized,
		InvalidCredentials:    http.StatusUnauthorized,
		Forbidden:             http.StatusForbidden,
		UpstreamFailure:       http.StatusBadGateway,
		Internal:              http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equalf(t, want, kind.Status(), "kind %s", kind)
	}
}

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(NotFound, "gone", cause)
	assert.ErrorIs(t, err, cause)
}
