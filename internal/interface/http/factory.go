// Package handlers holds the HTTP handlers and the generic CRUD factory
// they are built from.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/repository"
	"github.com/atlastrek/tours-api/pkg/apierror"
	"github.com/atlastrek/tours-api/pkg/query"
	"github.com/atlastrek/tours-api/pkg/response"
)

// Base carries what every handler needs to funnel failures into the single
// error boundary.
type Base struct {
	Logger *logrus.Logger
	Env    string
}

// Fail routes err through error normalization and writes the response.
func (b *Base) Fail(c *gin.Context, err error) {
	apierror.Respond(c, b.Logger, b.Env, err)
}

// ScopeFunc derives an extra equality filter from the request, e.g. the
// parent tour of a nested review listing.
type ScopeFunc func(c *gin.Context) map[string]any

// List reads a page of documents through the filter/sort/fields/paginate
// pipeline. An empty result is a success with zero results, never an error.
func List[T any](b *Base, col repository.Collection[T], scope ScopeFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		spec := query.ParseValues(c.Request.URL.Query())
		def := col.Query()
		if scope != nil {
			if f := scope(c); len(f) > 0 {
				def.Scope(f)
			}
		}
		def.Apply(spec)

		docs, err := col.FindMany(c.Request.Context(), def)
		if err != nil {
			b.Fail(c, err)
			return
		}
		response.List(c, http.StatusOK, len(docs), gin.H{"docs": docs})
	}
}

// GetOne looks a document up by the :id route parameter.
func GetOne[T any](b *Base, col repository.Collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := col.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			b.Fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"doc": doc})
	}
}

// BindFunc builds the document to persist from the request. Field pruning
// is the binder's responsibility, not the factory's.
type BindFunc[T any] func(c *gin.Context) (*T, error)

// CreateOne persists a new document built by bind.
func CreateOne[T any](b *Base, col repository.Collection[T], bind BindFunc[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := bind(c)
		if err != nil {
			b.Fail(c, err)
			return
		}
		if err := col.Create(c.Request.Context(), doc); err != nil {
			b.Fail(c, err)
			return
		}
		response.Success(c, http.StatusCreated, gin.H{"doc": doc})
	}
}

// UpdateOne applies a partial update restricted to the allowed fields and
// returns the post-update document.
func UpdateOne[T any](b *Base, col repository.Collection[T], allowed ...string) gin.HandlerFunc {
	allow := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		allow[f] = true
	}
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			b.Fail(c, apierror.Wrap(apierror.Validation, "invalid payload", err))
			return
		}
		patch := make(map[string]any, len(body))
		for k, v := range body {
			if allow[k] {
				patch[k] = v
			}
		}
		doc, err := col.UpdateByID(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			b.Fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"doc": doc})
	}
}

// DeleteOne removes the document and signals no content.
func DeleteOne[T any](b *Base, col repository.Collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := col.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
			b.Fail(c, err)
			return
		}
		response.NoContent(c)
	}
}
