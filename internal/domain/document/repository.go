package document

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists documents of every type. FindByID returns (nil, nil)
// when the document does not exist. Save is all-or-nothing: the header and
// every item are written together or not at all.
type Repository interface {
	FindAll(ctx context.Context, docType DocType) ([]Document, error)
	FindByID(ctx context.Context, docType DocType, id uuid.UUID) (*Document, error)
	Save(ctx context.Context, doc *Document) error

	// SaveAll writes every document in a single transaction; on failure
	// none of them is stored
	SaveAll(ctx context.Context, docs ...*Document) error
	Delete(ctx context.Context, docType DocType, id uuid.UUID) error

	// ExistsByNumber reports whether another document of the type carries
	// number. excludeID, when not uuid.Nil, is left out of the check.
	ExistsByNumber(ctx context.Context, docType DocType, number string, excludeID uuid.UUID) (bool, error)

	// ListNumbers returns every number in use for the type
	ListNumbers(ctx context.Context, docType DocType) ([]string, error)
}
