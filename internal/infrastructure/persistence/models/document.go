package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/shopspring/decimal"
)

// DocumentModel is the header row of a quote, invoice or purchase order.
// Numbers are unique per document type.
type DocumentModel struct {
	BaseModel
	Type           document.DocType `gorm:"type:varchar(20);not null;uniqueIndex:idx_document_type_number,priority:1"`
	Number         string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_document_type_number,priority:2"`
	Date           time.Time        `gorm:"not null"`
	DueDate        *time.Time
	ValidUntil     *time.Time
	CounterpartyID *uuid.UUID     `gorm:"type:uuid;index"`
	Counterparty   ContactColumns `gorm:"embedded;embeddedPrefix:counterparty_"`

	DocumentTax     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RecordedPayment decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Tax             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountReceived  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Status          document.Status `gorm:"type:varchar(30);not null;default:'draft'"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'AED'"`
	Notes           string          `gorm:"type:text"`
	Terms           string          `gorm:"type:text"`
	QuoteID         *uuid.UUID      `gorm:"type:uuid;index"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// DocumentItemModel is one line item row. Position keeps the display order.
type DocumentItemModel struct {
	ID             uuid.UUID            `gorm:"type:uuid;primaryKey"`
	DocumentID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Position       int                  `gorm:"not null"`
	Description    string               `gorm:"type:text"`
	VehicleRef     string               `gorm:"type:varchar(100)"`
	RentalBasis    document.RentalBasis `gorm:"type:varchar(20);not null;default:'unit'"`
	Quantity       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	TaxPercent     decimal.NullDecimal  `gorm:"type:decimal(9,4)"`
	TaxFlat        decimal.NullDecimal  `gorm:"type:decimal(18,4)"`
	AmountReceived decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentItemModel) TableName() string {
	return "document_items"
}

// DocumentModelFromDomain converts a document into its header and item rows
func DocumentModelFromDomain(d *document.Document) (*DocumentModel, []DocumentItemModel) {
	m := &DocumentModel{
		Type:            d.Type,
		Number:          d.Number,
		Date:            d.Date,
		DueDate:         d.DueDate,
		ValidUntil:      d.ValidUntil,
		Counterparty:    contactColumnsFrom(d.Counterparty.Contact),
		DocumentTax:     toDecimal(d.DocumentTax),
		RecordedPayment: toDecimal(d.RecordedPayment),
		Subtotal:        toDecimal(d.Subtotal),
		Tax:             toDecimal(d.Tax),
		Total:           toDecimal(d.Total),
		AmountReceived:  toDecimal(d.AmountReceived),
		Status:          d.Status,
		Currency:        d.Currency,
		Notes:           d.Notes,
		Terms:           d.Terms,
		QuoteID:         d.QuoteID,
		PurchaseOrderID: d.PurchaseOrderID,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	if d.Counterparty.IsSelected() {
		id := d.Counterparty.ID
		m.CounterpartyID = &id
	}

	items := make([]DocumentItemModel, len(d.Items))
	for i, item := range d.Items {
		items[i] = DocumentItemModel{
			ID:             item.ID,
			DocumentID:     d.ID,
			Position:       i,
			Description:    item.Description,
			VehicleRef:     item.VehicleRef,
			RentalBasis:    item.RentalBasis,
			Quantity:       toDecimal(item.Quantity),
			UnitPrice:      toDecimal(item.UnitPrice),
			TaxPercent:     toNullDecimal(item.Percent),
			TaxFlat:        toNullDecimal(item.Flat),
			AmountReceived: toDecimal(item.AmountReceived),
			LineTotal:      toDecimal(item.LineTotal),
		}
	}
	return m, items
}

// ToDomain rebuilds the document from its rows. items must be ordered by
// position. Derived amounts are recomputed and the document is marked as
// persisted.
func (m *DocumentModel) ToDomain(items []DocumentItemModel) *document.Document {
	d := &document.Document{
		BaseEntity:      m.BaseModel.ToDomain(),
		Type:            m.Type,
		Number:          m.Number,
		Date:            m.Date,
		DueDate:         m.DueDate,
		ValidUntil:      m.ValidUntil,
		Counterparty:    document.Counterparty{Contact: m.Counterparty.toContact()},
		DocumentTax:     toFloat(m.DocumentTax),
		RecordedPayment: toFloat(m.RecordedPayment),
		Status:          m.Status,
		Currency:        m.Currency,
		Notes:           m.Notes,
		Terms:           m.Terms,
		QuoteID:         m.QuoteID,
		PurchaseOrderID: m.PurchaseOrderID,
		Items:           make([]document.LineItem, 0, len(items)),
		Persisted:       true,
	}
	if m.CounterpartyID != nil {
		d.Counterparty.ID = *m.CounterpartyID
	}

	for _, row := range items {
		d.Items = append(d.Items, document.LineItem{
			ID:          row.ID,
			Description: row.Description,
			VehicleRef:  row.VehicleRef,
			RentalBasis: row.RentalBasis,
			Quantity:    toFloat(row.Quantity),
			UnitPrice:   toFloat(row.UnitPrice),
			TaxRule: document.TaxRule{
				Percent: toFloatPtr(row.TaxPercent),
				Flat:    toFloatPtr(row.TaxFlat),
			},
			AmountReceived: toFloat(row.AmountReceived),
		})
	}
	d.Recalculate()
	return d
}
