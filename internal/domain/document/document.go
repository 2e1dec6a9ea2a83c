package document

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/domain/shared"
)

// DefaultCurrency is used when a document does not set one
const DefaultCurrency = "AED"

// Counterparty is the customer (quote, invoice) or vendor (purchase order) a
// document is addressed to. The contact is a snapshot taken when it is set.
type Counterparty struct {
	ID uuid.UUID `json:"id"`
	partner.Contact
}

// IsSelected reports whether a counterparty has been chosen
func (c Counterparty) IsSelected() bool {
	return c.ID != uuid.Nil
}

// CounterpartyFromCustomer snapshots a customer
func CounterpartyFromCustomer(c *partner.Customer) Counterparty {
	return Counterparty{ID: c.ID, Contact: c.Contact}
}

// CounterpartyFromVendor snapshots a vendor
func CounterpartyFromVendor(v *partner.Vendor) Counterparty {
	return Counterparty{ID: v.ID, Contact: v.Contact}
}

// Document is a quote, invoice or purchase order.
// Subtotal, Tax, Total and AmountReceived are derived by Recalculate and are
// never authoritative. DocumentTax is the user-entered tax used when no item
// carries tax. RecordedPayment is the part of the amount received held at
// document level rather than on an item; AmountReceived is the item payments
// plus RecordedPayment.
type Document struct {
	shared.BaseEntity
	Type            DocType      `json:"type"`
	Number          string       `json:"number"`
	Date            time.Time    `json:"date"`
	DueDate         *time.Time   `json:"dueDate,omitempty"`
	ValidUntil      *time.Time   `json:"validUntil,omitempty"`
	Counterparty    Counterparty `json:"counterparty"`
	Items           []LineItem   `json:"items"`
	DocumentTax     float64      `json:"documentTax"`
	RecordedPayment float64      `json:"recordedPayment,omitempty"`
	Subtotal        float64      `json:"subtotal"`
	Tax             float64      `json:"tax"`
	Total           float64      `json:"total"`
	AmountReceived  float64      `json:"amountReceived"`
	Status          Status       `json:"status"`
	Currency        string       `json:"currency"`
	Notes           string       `json:"notes"`
	Terms           string       `json:"terms"`
	QuoteID         *uuid.UUID   `json:"quoteId,omitempty"`
	PurchaseOrderID *uuid.UUID   `json:"purchaseOrderId,omitempty"`
	Persisted       bool         `json:"persisted"`
}

// NewDocument creates an empty draft with a generated id and a provisional number
func NewDocument(docType DocType) (*Document, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", fmt.Sprintf("Unknown document type: %s", docType))
	}
	now := time.Now()
	return &Document{
		BaseEntity: shared.NewBaseEntity(),
		Type:       docType,
		Number:     NextNumber(docType, nil),
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Items:      make([]LineItem, 0),
		Status:     StatusDraft,
		Currency:   DefaultCurrency,
	}, nil
}

// Recalculate refreshes every derived amount from the current inputs
func (d *Document) Recalculate() {
	for i := range d.Items {
		if !d.Type.TracksPayments() {
			d.Items[i].AmountReceived = 0
		}
		d.Items[i].Recalculate()
	}

	totals := d.Totals()
	d.Subtotal = totals.Subtotal
	d.Tax = totals.Tax
	d.Total = totals.Total
	d.AmountReceived = totals.AmountReceived
}

// Totals returns the derived totals as computed by the numeric model
func (d *Document) Totals() DocumentTotals {
	totals := ComputeDocumentTotals(d.Items, d.DocumentTax)
	if d.Type.TracksPayments() {
		totals.AmountReceived += d.RecordedPayment
	} else {
		totals.AmountReceived = 0
	}
	return totals
}

// itemPayments sums the amounts received on items
func (d *Document) itemPayments() float64 {
	var sum float64
	for _, item := range d.Items {
		sum += item.AmountReceived
	}
	return sum
}

// Pending is total minus amount received
func (d *Document) Pending() float64 {
	return d.Total - d.AmountReceived
}

// SecondaryDate returns the due date (invoice, PO) or the validity date (quote)
func (d *Document) SecondaryDate() *time.Time {
	if d.Type == DocTypeQuote {
		return d.ValidUntil
	}
	return d.DueDate
}

// SetNumber changes the document number. Numbers are fixed once persisted.
func (d *Document) SetNumber(number string) error {
	if d.Persisted {
		return shared.WrapDomainError("NUMBER_LOCKED", "Document number cannot be changed after the document is saved", shared.ErrInvalidState)
	}
	d.Number = strings.TrimSpace(number)
	d.Touch()
	return nil
}

// SetDates sets the document date and its secondary date
func (d *Document) SetDates(date time.Time, secondary *time.Time) {
	d.Date = date
	if d.Type == DocTypeQuote {
		d.ValidUntil = secondary
	} else {
		d.DueDate = secondary
	}
	d.Touch()
}

// SetCounterparty sets the customer or vendor snapshot
func (d *Document) SetCounterparty(c Counterparty) {
	d.Counterparty = c
	d.Touch()
}

// SetStatus sets the workflow status. Any status valid for the type is accepted.
func (d *Document) SetStatus(status Status) error {
	if !status.IsValidFor(d.Type) {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid %s status: %s", d.Type.DisplayName(), status))
	}
	d.Status = status
	d.Touch()
	return nil
}

// SetDocumentTax sets the document-level tax used when no item carries tax
func (d *Document) SetDocumentTax(tax float64) {
	d.DocumentTax = tax
	d.Recalculate()
	d.Touch()
}

// SetAmountReceived sets the total amount received. The part not already
// received on items is held at document level; item payments are never
// reduced by it.
func (d *Document) SetAmountReceived(amount float64) error {
	if !d.Type.TracksPayments() {
		return shared.NewDomainError("PAYMENTS_NOT_TRACKED", fmt.Sprintf("%s does not track payments", d.Type.DisplayName()))
	}
	d.RecordedPayment = 0
	if items := d.itemPayments(); items <= 0 {
		d.RecordedPayment = amount
	} else if amount > items {
		d.RecordedPayment = amount - items
	}
	d.Recalculate()
	d.Touch()
	return nil
}

// SetItems replaces all items. Items without an id get one.
func (d *Document) SetItems(items []LineItem) {
	d.Items = make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		d.Items = append(d.Items, item)
	}
	d.Recalculate()
	d.Touch()
}

// AddItem appends an item
func (d *Document) AddItem(item LineItem) LineItem {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	d.Items = append(d.Items, item)
	d.Recalculate()
	d.Touch()
	return d.Items[len(d.Items)-1]
}

// UpdateItem applies fn to the item with the given id. The id is immutable.
func (d *Document) UpdateItem(id uuid.UUID, fn func(item *LineItem)) error {
	for i := range d.Items {
		if d.Items[i].ID != id {
			continue
		}
		fn(&d.Items[i])
		d.Items[i].ID = id
		d.Recalculate()
		d.Touch()
		return nil
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Line item %s not found", id))
}

// RemoveItem removes the item with the given id
func (d *Document) RemoveItem(id uuid.UUID) error {
	for i := range d.Items {
		if d.Items[i].ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			d.Recalculate()
			d.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Line item %s not found", id))
}

// ApplyPayment spreads a payment across invoice items in display order, each
// item capped at its outstanding line total. A document-level payment is
// moved onto the items first. What the items cannot absorb (the
// document-level tax) stays at document level.
func (d *Document) ApplyPayment(amount float64) error {
	if !d.Type.TracksPayments() {
		return shared.NewDomainError("PAYMENTS_NOT_TRACKED", fmt.Sprintf("%s does not track payments", d.Type.DisplayName()))
	}
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	d.Recalculate()
	if amount > d.Pending()+amountEpsilon {
		return shared.NewDomainError("PAYMENT_EXCEEDS_PENDING", "Payment exceeds the pending amount")
	}
	if len(d.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Document has no line items")
	}

	remaining := amount + d.RecordedPayment
	d.RecordedPayment = 0
	for i := range d.Items {
		if remaining <= 0 {
			break
		}
		outstanding := d.Items[i].LineTotal - d.Items[i].AmountReceived
		if outstanding <= 0 {
			continue
		}
		applied := math.Min(outstanding, remaining)
		d.Items[i].AmountReceived += applied
		remaining -= applied
	}
	if remaining > 0 {
		d.RecordedPayment = remaining
	}

	d.Recalculate()
	if d.Pending() <= amountEpsilon {
		d.Status = StatusPaymentReceived
	}
	d.Touch()
	return nil
}

// MarkPersisted flags the document as stored
func (d *Document) MarkPersisted() {
	d.Persisted = true
}

// CounterpartyName resolves the printed counterparty name
func (d *Document) CounterpartyName() string {
	return d.Counterparty.DisplayName()
}

// amountEpsilon absorbs floating point noise in amount comparisons
const amountEpsilon = 0.005
