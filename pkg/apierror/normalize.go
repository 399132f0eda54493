package apierror

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/pkg/response"
	"github.com/atlastrek/tours-api/pkg/validation"
)

// Postgres error codes that map onto the taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidTextRep      = "22P02"
	pgUndefinedColumn     = "42703"
)

// Normalize maps any failure into the taxonomy. Errors that are already
// classified pass through untouched.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := As(err); ok {
		return ae
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return Wrap(NotFound, "no document found with that ID", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Wrap(DuplicateKey, "duplicate field value, please use another value", err)
		case pgForeignKeyViolation:
			return Wrap(Validation, "referenced document does not exist", err)
		case pgCheckViolation:
			return Wrap(Validation, "invalid input data", err)
		case pgInvalidTextRep, pgUndefinedColumn:
			return Wrap(Validation, "invalid query parameter", err)
		}
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return Wrap(Unauthenticated, "your token has expired, please log in again", err)
	}
	if errors.Is(err, jwt.ErrTokenMalformed) || errors.Is(err, jwt.ErrSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return Wrap(Unauthenticated, "invalid token, please log in again", err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return Wrap(Validation, "invalid input data", err).WithDetails(validation.ToDetails(err))
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(UpstreamFailure, "upstream request timed out", err)
	}

	return Wrap(Internal, "something went wrong", err)
}

// Respond is the single error boundary: it normalizes err, logs internal
// failures with full detail, and writes the error envelope. The development
// posture additionally returns the cause and a stack trace.
func Respond(c *gin.Context, logger *logrus.Logger, env string, err error) {
	ae := Normalize(err)

	if logger != nil && !ae.Operational() {
		logger.WithError(ae.Err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("unhandled error")
	}

	env = envOrProduction(env)
	body := response.Envelope{Status: "error", Message: ae.Message}
	if ae.Details != nil {
		body.Error = ae.Details
	}
	if env == "development" {
		if ae.Err != nil {
			body.Error = gin.H{"detail": ae.Err.Error(), "kind": ae.Kind.String(), "fields": ae.Details}
		}
		body.Stack = string(debug.Stack())
	} else if !ae.Operational() {
		body.Message = "something went wrong"
	}

	c.AbortWithStatusJSON(ae.Kind.Status(), body)
}

func envOrProduction(env string) string {
	if env == "" {
		return "production"
	}
	return env
}
