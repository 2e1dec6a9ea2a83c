package document

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	t.Run("creates draft with provisional number", func(t *testing.T) {
		doc, err := NewDocument(DocTypeInvoice)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, doc.ID)
		assert.Equal(t, "Invoice-001", doc.Number)
		assert.Equal(t, StatusDraft, doc.Status)
		assert.Equal(t, DefaultCurrency, doc.Currency)
		assert.False(t, doc.Persisted)
		assert.Empty(t, doc.Items)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewDocument("receipt")
		assert.Error(t, err)
	})
}

func TestDocument_ItemMutations(t *testing.T) {
	doc := newTestDocument(t, DocTypeQuote)
	first := doc.Items[0]

	added := doc.AddItem(LineItem{Description: "Driver", Quantity: 8, UnitPrice: 25, RentalBasis: RentalBasisHourly, TaxRule: PercentTax(5)})
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.InDelta(t, 400, doc.Subtotal, 1e-9)
	assert.InDelta(t, 10, doc.Tax, 1e-9)
	assert.InDelta(t, 410, doc.Total, 1e-9)

	t.Run("update keeps the id", func(t *testing.T) {
		err := doc.UpdateItem(first.ID, func(item *LineItem) {
			item.ID = uuid.New()
			item.Quantity = 3
		})

		require.NoError(t, err)
		assert.Equal(t, first.ID, doc.Items[0].ID)
		assert.InDelta(t, 300, doc.Items[0].LineTotal, 1e-9)
		assert.InDelta(t, 510, doc.Total, 1e-9)
	})

	t.Run("remove keeps order", func(t *testing.T) {
		require.NoError(t, doc.RemoveItem(first.ID))

		require.Len(t, doc.Items, 1)
		assert.Equal(t, added.ID, doc.Items[0].ID)
		assert.InDelta(t, 210, doc.Total, 1e-9)
	})

	t.Run("unknown item", func(t *testing.T) {
		assert.Error(t, doc.RemoveItem(uuid.New()))
		assert.Error(t, doc.UpdateItem(uuid.New(), func(*LineItem) {}))
	})
}

func TestDocument_DocumentTaxFallback(t *testing.T) {
	doc := newTestDocument(t, DocTypeInvoice)

	doc.SetDocumentTax(10)
	assert.InDelta(t, 10, doc.Tax, 1e-9)
	assert.InDelta(t, 210, doc.Total, 1e-9)

	require.NoError(t, doc.UpdateItem(doc.Items[0].ID, func(item *LineItem) {
		item.TaxRule = PercentTax(5)
	}))
	assert.InDelta(t, 10, doc.Tax, 1e-9)
	assert.InDelta(t, 210, doc.Total, 1e-9)

	require.NoError(t, doc.UpdateItem(doc.Items[0].ID, func(item *LineItem) {
		item.TaxRule = PercentTax(10)
	}))
	assert.InDelta(t, 20, doc.Tax, 1e-9, "item tax replaces document tax entirely")
}

func TestDocument_AmountReceived(t *testing.T) {
	t.Run("document level payment", func(t *testing.T) {
		doc := newTestDocument(t, DocTypeInvoice)

		require.NoError(t, doc.SetAmountReceived(50))

		assert.InDelta(t, 50, doc.AmountReceived, 1e-9)
		assert.InDelta(t, 150, doc.Pending(), 1e-9)
	})

	t.Run("item payments are not reduced", func(t *testing.T) {
		doc := newTestDocument(t, DocTypeInvoice)
		require.NoError(t, doc.UpdateItem(doc.Items[0].ID, func(item *LineItem) {
			item.AmountReceived = 120
		}))

		require.NoError(t, doc.SetAmountReceived(50))
		assert.InDelta(t, 120, doc.AmountReceived, 1e-9)
		assert.Zero(t, doc.RecordedPayment)

		require.NoError(t, doc.SetAmountReceived(150))
		assert.InDelta(t, 150, doc.AmountReceived, 1e-9)
		assert.InDelta(t, 30, doc.RecordedPayment, 1e-9)
	})

	t.Run("not tracked for quotes", func(t *testing.T) {
		doc := newTestDocument(t, DocTypeQuote)
		assert.Error(t, doc.SetAmountReceived(10))
		assert.Zero(t, doc.AmountReceived)
	})
}

func TestDocument_ApplyPayment(t *testing.T) {
	newInvoice := func(t *testing.T) *Document {
		doc := newTestDocument(t, DocTypeInvoice)
		doc.SetItems([]LineItem{
			NewLineItem("Sedan", 1, 100, PercentTax(5)),
			NewLineItem("SUV", 1, 200, PercentTax(5)),
		})
		return doc
	}

	t.Run("distributes in order", func(t *testing.T) {
		doc := newInvoice(t)

		require.NoError(t, doc.ApplyPayment(150))

		assert.InDelta(t, 105, doc.Items[0].AmountReceived, 1e-9)
		assert.InDelta(t, 45, doc.Items[1].AmountReceived, 1e-9)
		assert.InDelta(t, 150, doc.AmountReceived, 1e-9)
		assert.InDelta(t, 165, doc.Pending(), 1e-9)
		assert.Equal(t, StatusDraft, doc.Status)
	})

	t.Run("full payment marks invoice paid", func(t *testing.T) {
		doc := newInvoice(t)

		require.NoError(t, doc.ApplyPayment(100))
		require.NoError(t, doc.ApplyPayment(215))

		assert.InDelta(t, 0, doc.Pending(), 1e-9)
		assert.Equal(t, StatusPaymentReceived, doc.Status)
	})

	t.Run("moves document level payment onto items", func(t *testing.T) {
		doc := newInvoice(t)
		require.NoError(t, doc.SetAmountReceived(50))

		require.NoError(t, doc.ApplyPayment(100))

		assert.InDelta(t, 150, doc.AmountReceived, 1e-9)
		assert.Zero(t, doc.RecordedPayment)
	})

	t.Run("document level tax stays exportable", func(t *testing.T) {
		doc := newTestDocument(t, DocTypeInvoice)
		doc.SetItems([]LineItem{NewLineItem("Sedan", 1, 100, NoTax())})
		doc.SetDocumentTax(10)

		require.NoError(t, doc.ApplyPayment(110))

		assert.InDelta(t, 110, doc.Total, 1e-9)
		assert.InDelta(t, 110, doc.AmountReceived, 1e-9)
		assert.InDelta(t, 100, doc.Items[0].AmountReceived, 1e-9)
		assert.InDelta(t, 10, doc.RecordedPayment, 1e-9)
		assert.InDelta(t, 0, doc.Pending(), 1e-9)
		assert.Equal(t, StatusPaymentReceived, doc.Status)
		result := ValidateForExport(doc)
		assert.True(t, result.IsValid(), "%v", result.Errors)
	})

	t.Run("partial payments with document level tax", func(t *testing.T) {
		doc := newTestDocument(t, DocTypeInvoice)
		doc.SetItems([]LineItem{
			NewLineItem("Sedan", 1, 100, NoTax()),
			NewLineItem("SUV", 1, 200, NoTax()),
		})
		doc.SetDocumentTax(30)

		require.NoError(t, doc.ApplyPayment(250))
		require.NoError(t, doc.ApplyPayment(80))

		assert.InDelta(t, 100, doc.Items[0].AmountReceived, 1e-9)
		assert.InDelta(t, 200, doc.Items[1].AmountReceived, 1e-9)
		assert.InDelta(t, 30, doc.RecordedPayment, 1e-9)
		assert.InDelta(t, 0, doc.Pending(), 1e-9)
		assert.True(t, ValidatePayments(doc).IsValid())
		assert.Error(t, doc.ApplyPayment(1))
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		doc := newInvoice(t)
		assert.Error(t, doc.ApplyPayment(316))
		assert.Error(t, doc.ApplyPayment(0))
	})
}

func TestDocument_SetNumber(t *testing.T) {
	doc := newTestDocument(t, DocTypeInvoice)

	require.NoError(t, doc.SetNumber(" Invoice-007 "))
	assert.Equal(t, "Invoice-007", doc.Number)

	doc.MarkPersisted()
	err := doc.SetNumber("Invoice-008")

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	assert.Equal(t, "Invoice-007", doc.Number)
}

func TestDocument_SetStatus(t *testing.T) {
	doc := newTestDocument(t, DocTypeInvoice)

	// No transition guard: any valid status in any order.
	require.NoError(t, doc.SetStatus(StatusPaymentReceived))
	require.NoError(t, doc.SetStatus(StatusDraft))
	require.NoError(t, doc.SetStatus(StatusInvoiceSent))

	assert.Error(t, doc.SetStatus(StatusQuoteConverted))
	assert.Equal(t, StatusInvoiceSent, doc.Status)
}

func TestNumbering(t *testing.T) {
	t.Run("next number", func(t *testing.T) {
		assert.Equal(t, "Invoice-001", NextNumber(DocTypeInvoice, nil))
		assert.Equal(t, "Invoice-013", NextNumber(DocTypeInvoice, []string{"Invoice-002", "Invoice-012", "bogus", "Quote-999"}))
		assert.Equal(t, "PO-1000", NextNumber(DocTypePurchaseOrder, []string{"PO-999"}))
		assert.Equal(t, "Quote-002", NextNumber(DocTypeQuote, []string{"Quote-001"}))
	})

	t.Run("format", func(t *testing.T) {
		assert.NoError(t, ValidateNumberFormat(DocTypeInvoice, "Invoice-001"))
		assert.NoError(t, ValidateNumberFormat(DocTypePurchaseOrder, "PO-1234"))
		assert.Error(t, ValidateNumberFormat(DocTypeInvoice, "Invoice-1"))
		assert.Error(t, ValidateNumberFormat(DocTypeInvoice, "Quote-001"))
		assert.Error(t, ValidateNumberFormat(DocTypeQuote, ""))
	})
}

func TestConvertToInvoice(t *testing.T) {
	now := time.Date(2025, 4, 10, 15, 30, 0, 0, time.UTC)

	t.Run("copies items under fresh ids", func(t *testing.T) {
		quote := newTestDocument(t, DocTypeQuote)
		quote.Notes = "Includes insurance"
		quote.SetDocumentTax(5)

		invoice, err := ConvertToInvoice(quote, "Invoice-004", now)

		require.NoError(t, err)
		assert.Equal(t, DocTypeInvoice, invoice.Type)
		assert.Equal(t, "Invoice-004", invoice.Number)
		require.NotNil(t, invoice.QuoteID)
		assert.Equal(t, quote.ID, *invoice.QuoteID)
		assert.Equal(t, quote.Counterparty, invoice.Counterparty)
		assert.Equal(t, "Includes insurance", invoice.Notes)
		require.Len(t, invoice.Items, 1)
		assert.NotEqual(t, quote.Items[0].ID, invoice.Items[0].ID)
		assert.Equal(t, quote.Total, invoice.Total)
		require.NotNil(t, invoice.DueDate)
		assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), *invoice.DueDate)
		assert.Equal(t, StatusQuoteConverted, quote.Status)
	})

	t.Run("rejects non quotes and repeated conversion", func(t *testing.T) {
		_, err := ConvertToInvoice(newTestDocument(t, DocTypeInvoice), "", now)
		assert.Error(t, err)

		quote := newTestDocument(t, DocTypeQuote)
		_, err = ConvertToInvoice(quote, "", now)
		require.NoError(t, err)
		_, err = ConvertToInvoice(quote, "", now)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("missing quote", func(t *testing.T) {
		_, err := ConvertToInvoice(nil, "", now)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
