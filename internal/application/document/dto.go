package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/partner"
)

// =============================================================================
// Request DTOs
// =============================================================================

// LineItemInput is one line item of a create/update request
type LineItemInput struct {
	ID             *uuid.UUID `json:"id"`
	Description    string     `json:"description" binding:"max=500"`
	VehicleRef     string     `json:"vehicle_ref" binding:"max=100"`
	RentalBasis    string     `json:"rental_basis" binding:"omitempty,oneof=unit hourly daily monthly"`
	Quantity       float64    `json:"quantity"`
	UnitPrice      float64    `json:"unit_price"`
	TaxPercent     *float64   `json:"tax_percent"`
	Tax            *float64   `json:"tax"`
	AmountReceived float64    `json:"amount_received"`
}

// ContactInput is an inline counterparty snapshot
type ContactInput struct {
	Name    string `json:"name" binding:"max=200"`
	Company string `json:"company" binding:"max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	TRN     string `json:"trn" binding:"max=50"`
}

// DocumentRequest creates or updates a document
type DocumentRequest struct {
	Number          string          `json:"number" binding:"max=50"`
	Date            *time.Time      `json:"date"`
	DueDate         *time.Time      `json:"due_date"`
	ValidUntil      *time.Time      `json:"valid_until"`
	CounterpartyID  uuid.UUID       `json:"counterparty_id"`
	Counterparty    *ContactInput   `json:"counterparty"`
	Items           []LineItemInput `json:"items" binding:"dive"`
	DocumentTax     float64         `json:"document_tax"`
	AmountReceived  float64         `json:"amount_received"`
	Status          string          `json:"status"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	Notes           string          `json:"notes"`
	Terms           string          `json:"terms"`
	QuoteID         *uuid.UUID      `json:"quote_id"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id"`
}

// PaymentRequest records a payment against an invoice
type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// LineItemResponse is a line item with its derived amounts
type LineItemResponse struct {
	ID             string   `json:"id"`
	SerialNumber   int      `json:"serial_number"`
	Description    string   `json:"description"`
	VehicleRef     string   `json:"vehicle_ref,omitempty"`
	RentalBasis    string   `json:"rental_basis,omitempty"`
	Quantity       float64  `json:"quantity"`
	UnitPrice      float64  `json:"unit_price"`
	TaxPercent     *float64 `json:"tax_percent,omitempty"`
	Tax            *float64 `json:"tax,omitempty"`
	GrossAmount    float64  `json:"gross_amount"`
	LineTaxAmount  float64  `json:"line_tax_amount"`
	LineTotal      float64  `json:"line_total"`
	AmountReceived float64  `json:"amount_received,omitempty"`
}

// CounterpartyResponse is the counterparty snapshot of a document
type CounterpartyResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	TRN         string `json:"trn,omitempty"`
	DisplayName string `json:"display_name"`
}

// DocumentResponse is a document with its derived totals
type DocumentResponse struct {
	ID              string               `json:"id"`
	Type            string               `json:"type"`
	Number          string               `json:"number"`
	Date            time.Time            `json:"date"`
	DueDate         *time.Time           `json:"due_date,omitempty"`
	ValidUntil      *time.Time           `json:"valid_until,omitempty"`
	Counterparty    CounterpartyResponse `json:"counterparty"`
	Items           []LineItemResponse   `json:"items"`
	DocumentTax     float64              `json:"document_tax"`
	Subtotal        float64              `json:"subtotal"`
	Tax             float64              `json:"tax"`
	Total           float64              `json:"total"`
	AmountReceived  float64              `json:"amount_received"`
	Pending         float64              `json:"pending"`
	Status          string               `json:"status"`
	StatusText      string               `json:"status_text"`
	Currency        string               `json:"currency"`
	Notes           string               `json:"notes"`
	Terms           string               `json:"terms"`
	QuoteID         *string              `json:"quote_id,omitempty"`
	PurchaseOrderID *string              `json:"purchase_order_id,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NextNumberResponse carries a suggested document number
type NextNumberResponse struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// ValidationResponse is the outcome of a validation request
type ValidationResponse struct {
	Valid  bool                  `json:"valid"`
	Errors []document.FieldError `json:"errors"`
}

// =============================================================================
// Conversion helpers
// =============================================================================

func (in LineItemInput) toLineItem() document.LineItem {
	item := document.LineItem{
		Description:    in.Description,
		VehicleRef:     in.VehicleRef,
		RentalBasis:    document.RentalBasis(in.RentalBasis),
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		TaxRule:        document.TaxRule{Percent: in.TaxPercent, Flat: in.Tax},
		AmountReceived: in.AmountReceived,
	}
	if item.RentalBasis == "" {
		item.RentalBasis = document.RentalBasisUnit
	}
	if in.ID != nil {
		item.ID = *in.ID
	}
	return item
}

func (in *ContactInput) toContact() partner.Contact {
	if in == nil {
		return partner.Contact{}
	}
	return partner.Contact{
		Name:    in.Name,
		Company: in.Company,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		TRN:     in.TRN,
	}
}

// ToDocumentResponse converts a document to its response DTO
func ToDocumentResponse(d *document.Document) *DocumentResponse {
	items := make([]LineItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = LineItemResponse{
			ID:             item.ID.String(),
			SerialNumber:   i + 1,
			Description:    item.Description,
			VehicleRef:     item.VehicleRef,
			RentalBasis:    string(item.RentalBasis),
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TaxPercent:     item.Percent,
			Tax:            item.Flat,
			GrossAmount:    item.GrossAmount,
			LineTaxAmount:  item.TaxAmount,
			LineTotal:      item.LineTotal,
			AmountReceived: item.AmountReceived,
		}
	}

	resp := &DocumentResponse{
		ID:         d.ID.String(),
		Type:       string(d.Type),
		Number:     d.Number,
		Date:       d.Date,
		DueDate:    d.DueDate,
		ValidUntil: d.ValidUntil,
		Counterparty: CounterpartyResponse{
			ID:          d.Counterparty.ID.String(),
			Name:        d.Counterparty.Name,
			Company:     d.Counterparty.Company,
			Email:       d.Counterparty.Email,
			Phone:       d.Counterparty.Phone,
			Address:     d.Counterparty.Address,
			TRN:         d.Counterparty.TRN,
			DisplayName: d.Counterparty.DisplayName(),
		},
		Items:          items,
		DocumentTax:    d.DocumentTax,
		Subtotal:       d.Subtotal,
		Tax:            d.Tax,
		Total:          d.Total,
		AmountReceived: d.AmountReceived,
		Pending:        d.Pending(),
		Status:         string(d.Status),
		StatusText:     d.Status.DisplayText(),
		Currency:       d.Currency,
		Notes:          d.Notes,
		Terms:          d.Terms,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.QuoteID != nil {
		id := d.QuoteID.String()
		resp.QuoteID = &id
	}
	if d.PurchaseOrderID != nil {
		id := d.PurchaseOrderID.String()
		resp.PurchaseOrderID = &id
	}
	return resp
}

// ToValidationResponse converts a validation result to its response DTO
func ToValidationResponse(r document.ValidationResult) *ValidationResponse {
	errs := r.Errors
	if errs == nil {
		errs = []document.FieldError{}
	}
	return &ValidationResponse{Valid: r.IsValid(), Errors: errs}
}
