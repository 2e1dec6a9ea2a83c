package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/rentaldocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DocumentService handles quote, invoice and purchase order operations
type DocumentService struct {
	documents document.Repository
	customers partner.CustomerRepository
	vendors   partner.VendorRepository
	validator *PersistenceValidator
	logger    *zap.Logger
	metrics   *telemetry.DocumentMetrics
	now       func() time.Time
}

// ServiceOption configures the document service
type ServiceOption func(*DocumentService)

// WithClock overrides the clock used for conversion dates
func WithClock(now func() time.Time) ServiceOption {
	return func(s *DocumentService) {
		s.now = now
	}
}

// WithMetrics records save outcomes on m
func WithMetrics(m *telemetry.DocumentMetrics) ServiceOption {
	return func(s *DocumentService) {
		s.metrics = m
	}
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documents document.Repository,
	customers partner.CustomerRepository,
	vendors partner.VendorRepository,
	logger *zap.Logger,
	opts ...ServiceOption,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DocumentService{
		documents: documents,
		customers: customers,
		vendors:   vendors,
		validator: NewPersistenceValidator(documents, customers, vendors, logger),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validator exposes the persistence validator
func (s *DocumentService) Validator() *PersistenceValidator {
	return s.validator
}

// Create builds a document from req, validates it against storage and saves it
func (s *DocumentService) Create(ctx context.Context, docType document.DocType, req DocumentRequest) (*document.Document, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "create",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentType, string(docType)))
	defer span.End()

	doc, err := s.Build(ctx, docType, req)
	if err != nil {
		return nil, err
	}

	if result := s.validator.Validate(ctx, doc, ValidateOptions{}); !result.IsValid() {
		s.metrics.RecordSave(ctx, string(docType), telemetry.OutcomeInvalid)
		return nil, result.Err()
	}

	if err := s.save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("document created",
		zap.String("id", doc.ID.String()),
		zap.String("type", string(doc.Type)),
		zap.String("number", doc.Number),
		zap.Float64("total", doc.Total))

	return doc, nil
}

// Build creates an unsaved document from req. When no number is given the
// next free number is assigned.
func (s *DocumentService) Build(ctx context.Context, docType document.DocType, req DocumentRequest) (*document.Document, error) {
	doc, err := document.NewDocument(docType)
	if err != nil {
		return nil, err
	}
	if req.Number == "" {
		number, err := s.NextNumber(ctx, docType)
		if err != nil {
			return nil, err
		}
		req.Number = number
	}
	if err := s.apply(ctx, doc, req); err != nil {
		return nil, err
	}
	return doc, nil
}

// Draft creates an unsaved document from req exactly as submitted. No
// number is assigned, so a missing number is left for validation to report.
func (s *DocumentService) Draft(ctx context.Context, docType document.DocType, req DocumentRequest) (*document.Document, error) {
	doc, err := document.NewDocument(docType)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, doc, req); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update applies req to an existing document and saves it. The document's
// own number is excluded from the uniqueness check.
func (s *DocumentService) Update(ctx context.Context, docType document.DocType, id uuid.UUID, req DocumentRequest) (*document.Document, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "update",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentType, string(docType)),
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, id.String()))
	defer span.End()

	doc, err := s.Get(ctx, docType, id)
	if err != nil {
		return nil, err
	}
	if req.Number == "" {
		req.Number = doc.Number
	}
	if err := s.apply(ctx, doc, req); err != nil {
		return nil, err
	}

	if result := s.validator.Validate(ctx, doc, ValidateOptions{ExcludeID: doc.ID}); !result.IsValid() {
		s.metrics.RecordSave(ctx, string(docType), telemetry.OutcomeInvalid)
		return nil, result.Err()
	}

	if err := s.save(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("document updated",
		zap.String("id", doc.ID.String()),
		zap.String("type", string(doc.Type)),
		zap.String("number", doc.Number))

	return doc, nil
}

// Get retrieves a document by id
func (s *DocumentService) Get(ctx context.Context, docType document.DocType, id uuid.UUID) (*document.Document, error) {
	doc, err := s.documents.FindByID(ctx, docType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, shared.WrapDomainError("NOT_FOUND", fmt.Sprintf("%s not found", docType.DisplayName()), shared.ErrNotFound)
	}
	return doc, nil
}

// List returns every document of the type
func (s *DocumentService) List(ctx context.Context, docType document.DocType) ([]document.Document, error) {
	docs, err := s.documents.FindAll(ctx, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document
func (s *DocumentService) Delete(ctx context.Context, docType document.DocType, id uuid.UUID) error {
	if _, err := s.Get(ctx, docType, id); err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, docType, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.logger.Info("document deleted", zap.String("id", id.String()), zap.String("type", string(docType)))
	return nil
}

// NextNumber returns the next free number for the type
func (s *DocumentService) NextNumber(ctx context.Context, docType document.DocType) (string, error) {
	numbers, err := s.documents.ListNumbers(ctx, docType)
	if err != nil {
		return "", fmt.Errorf("failed to list document numbers: %w", err)
	}
	return document.NextNumber(docType, numbers), nil
}

// ValidateRequest runs the persistence checks on req without saving. When id
// is set the request is treated as an update of that document.
func (s *DocumentService) ValidateRequest(ctx context.Context, docType document.DocType, id uuid.UUID, req DocumentRequest) (document.ValidationResult, error) {
	var (
		doc *document.Document
		err error
	)
	if id != uuid.Nil {
		doc, err = s.Get(ctx, docType, id)
		if err != nil {
			return document.ValidationResult{}, err
		}
		if req.Number == "" {
			req.Number = doc.Number
		}
		err = s.apply(ctx, doc, req)
	} else {
		doc, err = s.Build(ctx, docType, req)
	}
	if err != nil {
		return document.ValidationResult{}, err
	}
	return s.validator.Validate(ctx, doc, ValidateOptions{ExcludeID: id}), nil
}

// ConvertQuoteToInvoice creates a draft invoice from a quote and marks the
// quote as converted. Both are stored together or not at all.
func (s *DocumentService) ConvertQuoteToInvoice(ctx context.Context, quoteID uuid.UUID) (*document.Document, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "convert_quote",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, quoteID.String()))
	defer span.End()

	quote, err := s.Get(ctx, document.DocTypeQuote, quoteID)
	if err != nil {
		return nil, err
	}

	number, err := s.NextNumber(ctx, document.DocTypeInvoice)
	if err != nil {
		return nil, err
	}

	invoice, err := document.ConvertToInvoice(quote, number, s.now())
	if err != nil {
		return nil, err
	}

	if result := s.validator.Validate(ctx, invoice, ValidateOptions{}); !result.IsValid() {
		return nil, result.Err()
	}

	if err := s.documents.SaveAll(ctx, invoice, quote); err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordSave(ctx, string(document.DocTypeInvoice), telemetry.OutcomeFailed)
		s.logger.Error("quote conversion not saved",
			zap.String("quote_id", quote.ID.String()),
			zap.String("invoice_number", invoice.Number),
			zap.Error(err))
		return nil, shared.WrapDomainError("SAVE_FAILED", "Converted invoice could not be saved", err)
	}
	s.metrics.RecordSave(ctx, string(document.DocTypeInvoice), telemetry.OutcomeSuccess)
	s.metrics.RecordSave(ctx, string(document.DocTypeQuote), telemetry.OutcomeSuccess)
	invoice.MarkPersisted()
	quote.MarkPersisted()

	s.logger.Info("quote converted to invoice",
		zap.String("quote_id", quote.ID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.Number))

	return invoice, nil
}

// RecordPayment spreads a payment across the items of an invoice
func (s *DocumentService) RecordPayment(ctx context.Context, id uuid.UUID, req PaymentRequest) (*document.Document, error) {
	doc, err := s.Get(ctx, document.DocTypeInvoice, id)
	if err != nil {
		return nil, err
	}
	if err := doc.ApplyPayment(req.Amount); err != nil {
		return nil, err
	}
	if err := document.ValidatePayments(doc).Err(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("id", doc.ID.String()),
		zap.Float64("amount", req.Amount),
		zap.Float64("pending", doc.Pending()))

	return doc, nil
}

// CounterpartyName resolves the name printed on a document: the snapshot when
// it carries one, the stored customer or vendor otherwise
func (s *DocumentService) CounterpartyName(ctx context.Context, doc *document.Document) string {
	if name := doc.CounterpartyName(); name != "" {
		return name
	}
	if !doc.Counterparty.IsSelected() {
		return ""
	}
	contact, err := s.lookupContact(ctx, doc.Type, doc.Counterparty.ID)
	if err != nil {
		s.logger.Warn("counterparty lookup failed",
			zap.String("counterparty_id", doc.Counterparty.ID.String()),
			zap.Error(err))
		return ""
	}
	if contact == nil {
		return ""
	}
	return contact.DisplayName()
}

// apply copies the request onto doc and recalculates it
func (s *DocumentService) apply(ctx context.Context, doc *document.Document, req DocumentRequest) error {
	if req.Number != doc.Number {
		if err := doc.SetNumber(req.Number); err != nil {
			return err
		}
	}

	date := doc.Date
	if req.Date != nil {
		date = *req.Date
	}
	secondary := req.DueDate
	if doc.Type == document.DocTypeQuote {
		secondary = req.ValidUntil
	}
	doc.SetDates(date, secondary)

	counterparty := document.Counterparty{ID: req.CounterpartyID, Contact: req.Counterparty.toContact()}
	if req.CounterpartyID != uuid.Nil && !counterparty.IsIdentified() {
		contact, err := s.lookupContact(ctx, doc.Type, req.CounterpartyID)
		if err != nil {
			// The persistence check reports the missing counterparty.
			s.logger.Warn("counterparty snapshot lookup failed",
				zap.String("counterparty_id", req.CounterpartyID.String()),
				zap.Error(err))
		} else if contact != nil {
			counterparty.Contact = *contact
		}
	}
	doc.SetCounterparty(counterparty)

	if req.Status != "" {
		if err := doc.SetStatus(document.Status(req.Status)); err != nil {
			return err
		}
	}
	if req.Currency != "" {
		doc.Currency = req.Currency
	}
	doc.Notes = req.Notes
	doc.Terms = req.Terms
	doc.QuoteID = req.QuoteID
	doc.PurchaseOrderID = req.PurchaseOrderID

	items := make([]document.LineItem, len(req.Items))
	for i, in := range req.Items {
		items[i] = in.toLineItem()
	}
	doc.DocumentTax = req.DocumentTax
	doc.RecordedPayment = 0
	doc.SetItems(items)
	if doc.Type.TracksPayments() {
		return doc.SetAmountReceived(req.AmountReceived)
	}
	return nil
}

func (s *DocumentService) lookupContact(ctx context.Context, docType document.DocType, id uuid.UUID) (*partner.Contact, error) {
	if docType == document.DocTypePurchaseOrder {
		vendor, err := s.vendors.FindByID(ctx, id)
		if err != nil || vendor == nil {
			return nil, err
		}
		return &vendor.Contact, nil
	}
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil || customer == nil {
		return nil, err
	}
	return &customer.Contact, nil
}

// save persists doc. A failed save is surfaced to the caller.
func (s *DocumentService) save(ctx context.Context, doc *document.Document) error {
	if err := s.documents.Save(ctx, doc); err != nil {
		s.metrics.RecordSave(ctx, string(doc.Type), telemetry.OutcomeFailed)
		s.logger.Error("document save failed",
			zap.String("id", doc.ID.String()),
			zap.String("type", string(doc.Type)),
			zap.Error(err))
		return shared.WrapDomainError("SAVE_FAILED", "Document could not be saved", err)
	}
	s.metrics.RecordSave(ctx, string(doc.Type), telemetry.OutcomeSuccess)
	doc.MarkPersisted()
	return nil
}
