package document

import (
	"strings"

	"github.com/google/uuid"
)

// RentalBasis is the billing unit of a line item
type RentalBasis string

const (
	RentalBasisUnit    RentalBasis = "unit"
	RentalBasisHourly  RentalBasis = "hourly"
	RentalBasisDaily   RentalBasis = "daily"
	RentalBasisMonthly RentalBasis = "monthly"
)

// AllowsFractionalQuantity reports whether quantities may carry decimals
func (b RentalBasis) AllowsFractionalQuantity() bool {
	return b == RentalBasisHourly || b == RentalBasisMonthly
}

// TaxKind identifies which tax representation of a TaxRule is in effect
type TaxKind string

const (
	TaxKindNone    TaxKind = "none"
	TaxKindPercent TaxKind = "percent"
	TaxKindFlat    TaxKind = "flat"
)

// TaxRule is the tax representation of a line item: either a percentage of
// the gross amount or a legacy flat amount. When both are present the
// percentage is used for computation and the flat amount is only retained.
type TaxRule struct {
	Percent *float64 `json:"taxPercent,omitempty"`
	Flat    *float64 `json:"tax,omitempty"`
}

// PercentTax builds a percentage tax rule
func PercentTax(percent float64) TaxRule {
	return TaxRule{Percent: &percent}
}

// FlatTax builds a legacy flat-amount tax rule
func FlatTax(amount float64) TaxRule {
	return TaxRule{Flat: &amount}
}

// NoTax is the zero tax rule
func NoTax() TaxRule {
	return TaxRule{}
}

// Resolve returns the effective representation and its value
func (r TaxRule) Resolve() (TaxKind, float64) {
	switch {
	case r.Percent != nil:
		return TaxKindPercent, *r.Percent
	case r.Flat != nil:
		return TaxKindFlat, *r.Flat
	default:
		return TaxKindNone, 0
	}
}

// TaxOn computes the tax for the given quantity and unit price
func (r TaxRule) TaxOn(quantity, unitPrice float64) float64 {
	kind, value := r.Resolve()
	switch kind {
	case TaxKindPercent:
		return (quantity * unitPrice * value) / 100
	case TaxKindFlat:
		return value
	default:
		return 0
	}
}

// PercentValue returns the percentage, or 0 when the rule is not a percentage
func (r TaxRule) PercentValue() float64 {
	if r.Percent == nil {
		return 0
	}
	return *r.Percent
}

// LineItem is one row of a document. The derived amounts are written only by
// Recalculate and must not be set by callers.
type LineItem struct {
	ID          uuid.UUID   `json:"id"`
	Description string      `json:"description"`
	VehicleRef  string      `json:"vehicleRef,omitempty"`
	RentalBasis RentalBasis `json:"rentalBasis,omitempty"`
	Quantity    float64     `json:"quantity"`
	UnitPrice   float64     `json:"unitPrice"`
	TaxRule

	// Invoice only
	AmountReceived float64 `json:"amountReceived,omitempty"`

	GrossAmount float64 `json:"grossAmount"`
	TaxAmount   float64 `json:"lineTaxAmount"`
	LineTotal   float64 `json:"lineTotal"`
}

// NewLineItem creates a line item with a fresh id and computed totals
func NewLineItem(description string, quantity, unitPrice float64, tax TaxRule) LineItem {
	item := LineItem{
		ID:          uuid.New(),
		Description: description,
		RentalBasis: RentalBasisUnit,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRule:     tax,
	}
	item.Recalculate()
	return item
}

// Recalculate refreshes the derived amounts from the inputs
func (i *LineItem) Recalculate() {
	totals := ComputeLineTotals(*i)
	i.GrossAmount = totals.GrossAmount
	i.TaxAmount = totals.TaxAmount
	i.LineTotal = totals.LineTotal
}

// Label is the text identifying the item: its description, or the vehicle
// reference when the description is empty
func (i LineItem) Label() string {
	if d := strings.TrimSpace(i.Description); d != "" {
		return d
	}
	return strings.TrimSpace(i.VehicleRef)
}

// Clone returns a copy of the item under a new id
func (i LineItem) Clone() LineItem {
	clone := i
	clone.ID = uuid.New()
	if i.Percent != nil {
		p := *i.Percent
		clone.Percent = &p
	}
	if i.Flat != nil {
		f := *i.Flat
		clone.Flat = &f
	}
	return clone
}
