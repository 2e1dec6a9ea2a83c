package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the narrow persistence contract shared by documents and
// counterparties. FindByID returns (nil, nil) when the record does not exist;
// a non-nil error always means the lookup itself failed.
type Repository[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}
