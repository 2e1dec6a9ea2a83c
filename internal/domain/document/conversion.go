package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/shared"
)

// DefaultPaymentTermDays sets the due date of converted invoices
const DefaultPaymentTermDays = 30

// ConvertToInvoice builds a draft invoice from a quote and marks the quote as
// converted. Items are copied under fresh ids.
func ConvertToInvoice(quote *Document, number string, now time.Time) (*Document, error) {
	if quote == nil {
		return nil, shared.ErrNotFound
	}
	if quote.Type != DocTypeQuote {
		return nil, shared.NewDomainError("INVALID_SOURCE", fmt.Sprintf("Only quotes can be converted, got %s", quote.Type.DisplayName()))
	}
	if quote.Status == StatusQuoteConverted {
		return nil, shared.WrapDomainError("ALREADY_CONVERTED", "Quote has already been converted", shared.ErrInvalidState)
	}
	if len(quote.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Quote has no line items")
	}

	invoice, err := NewDocument(DocTypeInvoice)
	if err != nil {
		return nil, err
	}
	if number != "" {
		invoice.Number = number
	}
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	due := date.AddDate(0, 0, DefaultPaymentTermDays)
	invoice.SetDates(date, &due)
	invoice.Counterparty = quote.Counterparty
	invoice.Currency = quote.Currency
	invoice.Notes = quote.Notes
	invoice.Terms = quote.Terms
	invoice.DocumentTax = quote.DocumentTax

	quoteID := quote.ID
	invoice.QuoteID = &quoteID

	items := make([]LineItem, 0, len(quote.Items))
	for _, item := range quote.Items {
		clone := item.Clone()
		clone.AmountReceived = 0
		items = append(items, clone)
	}
	invoice.SetItems(items)

	quote.Status = StatusQuoteConverted
	quote.Touch()

	return invoice, nil
}

// LinkedIDs returns the quote and purchase order this document references
func (d *Document) LinkedIDs() (quoteID, purchaseOrderID uuid.UUID) {
	if d.QuoteID != nil {
		quoteID = *d.QuoteID
	}
	if d.PurchaseOrderID != nil {
		purchaseOrderID = *d.PurchaseOrderID
	}
	return quoteID, purchaseOrderID
}
