package document

import (
	"fmt"
	"math"
	"strings"
)

// FieldError is a single validation failure attached to a field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of a validation tier
type ValidationResult struct {
	Errors []FieldError `json:"errors"`
}

// IsValid reports whether no errors were found
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Add records an error
func (r *ValidationResult) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Merge appends the errors of other
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
}

// HasField reports whether any error is attached to field
func (r ValidationResult) HasField(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the messages attached to field
func (r ValidationResult) Messages(field string) []string {
	var out []string
	for _, e := range r.Errors {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// Err returns a ValidationError when the result is invalid, nil otherwise
func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// ValidationError carries field errors across layers that only speak error
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateForExport runs the synchronous export checks. It performs no I/O
// and does not modify d; totals are recomputed from the items.
func ValidateForExport(d *Document) ValidationResult {
	var result ValidationResult
	if d == nil {
		result.Add("document", "Document is required")
		return result
	}

	if strings.TrimSpace(d.Number) == "" {
		result.Add("number", fmt.Sprintf("%s number is required", d.Type.DisplayName()))
	}

	if d.Date.IsZero() {
		result.Add("date", "A valid date is required")
	} else if secondary := d.SecondaryDate(); secondary != nil && !secondary.IsZero() && secondary.Before(d.Date) {
		result.Add(d.Type.SecondaryDateField(), fmt.Sprintf("%s cannot be before the document date", d.Type.SecondaryDateLabel()))
	}

	field := d.Type.CounterpartyField()
	switch {
	case !d.Counterparty.IsSelected():
		result.Add(field, fmt.Sprintf("Please select a %s", field))
	case !d.Counterparty.IsIdentified():
		result.Add(field, fmt.Sprintf("The selected %s must have a name or company", field))
	}

	validateItems(d, &result)

	totals := d.Totals()
	if len(d.Items) > 0 && totals.Total <= 0 {
		result.Add("total", "Total must be greater than zero")
	}
	result.Merge(ValidatePayments(d))

	if d.Status != "" && !d.Status.IsValidFor(d.Type) {
		result.Add("status", fmt.Sprintf("Invalid status %q", d.Status))
	}

	return result
}

func validateItems(d *Document, result *ValidationResult) {
	if len(d.Items) == 0 {
		result.Add("items", "At least one line item is required")
		return
	}

	billable := false
	for i, item := range d.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.Quantity < 0 {
			result.Add(prefix+".quantity", "Quantity cannot be negative")
		}
		if item.UnitPrice < 0 {
			result.Add(prefix+".unitPrice", "Unit price cannot be negative")
		}
		if kind, value := item.Resolve(); kind == TaxKindPercent && (value < 0 || value > 100) {
			result.Add(prefix+".taxPercent", "Tax percent must be between 0 and 100")
		} else if kind == TaxKindFlat && value < 0 {
			result.Add(prefix+".tax", "Tax cannot be negative")
		}
		if d.Type == DocTypeQuote && !item.RentalBasis.AllowsFractionalQuantity() && !isWholeQuantity(item.Quantity) {
			result.Add(prefix+".quantity", "Quantity must be a whole number unless billed hourly or monthly")
		}
		if item.UnitPrice > 0 && item.Label() != "" {
			billable = true
		}
	}

	if !billable {
		result.Add("items", "At least one line item needs a description and a positive unit price")
	}
}

// ValidatePayments checks the amounts received of an invoice: no negative
// amounts, no item above its line total, nothing above the document total.
// Documents that do not track payments always pass.
func ValidatePayments(d *Document) ValidationResult {
	var result ValidationResult
	if !d.Type.TracksPayments() {
		return result
	}

	for i, item := range d.Items {
		field := fmt.Sprintf("items[%d].amountReceived", i)
		if item.AmountReceived < 0 {
			result.Add(field, "Amount received cannot be negative")
		} else if line := ComputeLineTotals(item); item.AmountReceived > line.LineTotal+amountEpsilon {
			result.Add(field, "Amount received cannot exceed the line total")
		}
	}

	totals := d.Totals()
	if d.RecordedPayment < 0 || totals.AmountReceived < 0 {
		result.Add("amountReceived", "Amount received cannot be negative")
	} else if totals.AmountReceived > totals.Total+amountEpsilon {
		result.Add("amountReceived", "Amount received cannot exceed the total")
	}
	return result
}

func isWholeQuantity(q float64) bool {
	return q == math.Trunc(q)
}
