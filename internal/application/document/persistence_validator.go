package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ValidateOptions tunes persistence validation
type ValidateOptions struct {
	// ExcludeID is the id of the document being updated; it is ignored by the
	// number uniqueness check so a document never conflicts with itself.
	ExcludeID uuid.UUID
}

// PersistenceValidator runs the save-time checks: every export check plus
// lookups against stored documents and counterparties. Lookups run
// concurrently and never short-circuit each other. A lookup that fails is
// logged and its check skipped.
type PersistenceValidator struct {
	documents document.Repository
	customers partner.CustomerRepository
	vendors   partner.VendorRepository
	logger    *zap.Logger
}

// NewPersistenceValidator creates a new PersistenceValidator
func NewPersistenceValidator(
	documents document.Repository,
	customers partner.CustomerRepository,
	vendors partner.VendorRepository,
	logger *zap.Logger,
) *PersistenceValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersistenceValidator{
		documents: documents,
		customers: customers,
		vendors:   vendors,
		logger:    logger,
	}
}

// lookup is one independent existence or uniqueness check. Its result slot
// is written by exactly one goroutine.
type lookup struct {
	name   string
	run    func(ctx context.Context) ([]document.FieldError, error)
	errors []document.FieldError
}

// Validate returns all export and referential errors of d. It only returns
// once every lookup has completed.
func (v *PersistenceValidator) Validate(ctx context.Context, d *document.Document, opts ValidateOptions) document.ValidationResult {
	result := document.ValidateForExport(d)
	if d == nil {
		return result
	}

	ctx, span := telemetry.StartSpan(ctx, "document.validate_persistence",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentType, string(d.Type)),
		telemetry.WithAttribute(telemetry.SpanAttrDocumentNumber, d.Number),
	)
	defer span.End()

	if d.Number != "" {
		if err := document.ValidateNumberFormat(d.Type, d.Number); err != nil {
			result.Add("number", err.Error())
		}
	}

	lookups := v.lookupsFor(d, opts)
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range lookups {
		g.Go(func() error {
			errs, err := l.run(gctx)
			if err != nil {
				v.logger.Warn("persistence check skipped",
					zap.String("check", l.name),
					zap.String("document_id", d.ID.String()),
					zap.Error(err))
				return nil
			}
			l.errors = errs
			return nil
		})
	}
	// Goroutines never return errors; a failed lookup is a skipped check.
	_ = g.Wait()

	for _, l := range lookups {
		for _, fe := range l.errors {
			result.Add(fe.Field, fe.Message)
		}
	}

	telemetry.SetAttribute(span, "validation.error_count", len(result.Errors))
	return result
}

func (v *PersistenceValidator) lookupsFor(d *document.Document, opts ValidateOptions) []*lookup {
	var lookups []*lookup

	if d.Number != "" {
		lookups = append(lookups, &lookup{name: "number_unique", run: func(ctx context.Context) ([]document.FieldError, error) {
			exists, err := v.documents.ExistsByNumber(ctx, d.Type, d.Number, opts.ExcludeID)
			if err != nil {
				return nil, err
			}
			if exists {
				return []document.FieldError{{
					Field:   "number",
					Message: fmt.Sprintf("%s number %s is already in use; numbers must be unique", d.Type.DisplayName(), d.Number),
				}}, nil
			}
			return nil, nil
		}})
	}

	if d.Counterparty.IsSelected() {
		field := d.Type.CounterpartyField()
		id := d.Counterparty.ID
		lookups = append(lookups, &lookup{name: field + "_exists", run: func(ctx context.Context) ([]document.FieldError, error) {
			found, err := v.counterpartyExists(ctx, d.Type, id)
			if err != nil {
				return nil, err
			}
			if !found {
				return []document.FieldError{{Field: field, Message: fmt.Sprintf("The selected %s no longer exists", field)}}, nil
			}
			return nil, nil
		}})
	}

	quoteID, purchaseOrderID := d.LinkedIDs()
	if quoteID != uuid.Nil {
		lookups = append(lookups, v.linkedLookup("quoteId", document.DocTypeQuote, quoteID))
	}
	if purchaseOrderID != uuid.Nil {
		lookups = append(lookups, v.linkedLookup("purchaseOrderId", document.DocTypePurchaseOrder, purchaseOrderID))
	}

	return lookups
}

func (v *PersistenceValidator) linkedLookup(field string, docType document.DocType, id uuid.UUID) *lookup {
	return &lookup{name: field + "_exists", run: func(ctx context.Context) ([]document.FieldError, error) {
		linked, err := v.documents.FindByID(ctx, docType, id)
		if err != nil {
			return nil, err
		}
		if linked == nil {
			return []document.FieldError{{
				Field:   field,
				Message: fmt.Sprintf("Linked %s no longer exists", docType.DisplayName()),
			}}, nil
		}
		return nil, nil
	}}
}

func (v *PersistenceValidator) counterpartyExists(ctx context.Context, docType document.DocType, id uuid.UUID) (bool, error) {
	if docType == document.DocTypePurchaseOrder {
		vendor, err := v.vendors.FindByID(ctx, id)
		return vendor != nil, err
	}
	customer, err := v.customers.FindByID(ctx, id)
	return customer != nil, err
}
