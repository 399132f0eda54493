package repository

import (
	"context"

	"github.com/atlastrek/tours-api/pkg/query"
)

// Collection is the capability set the generic CRUD factory operates over,
// implemented once per resource type. Callers are responsible for pruning
// the patch map before UpdateByID; the collection applies it as given.
type Collection[T any] interface {
	// Query starts the base read operation over the collection; callers
	// refine it through the query pipeline before passing it to FindMany.
	Query() *query.Definition

	FindMany(ctx context.Context, def *query.Definition) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc *T) error
	UpdateByID(ctx context.Context, id string, patch map[string]any) (*T, error)
	DeleteByID(ctx context.Context, id string) error
}
