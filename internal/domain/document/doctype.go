package document

// DocType represents the kind of commercial document
type DocType string

const (
	DocTypeQuote         DocType = "quote"
	DocTypeInvoice       DocType = "invoice"
	DocTypePurchaseOrder DocType = "purchase_order"
)

// IsValid checks if the DocType is a valid value
func (t DocType) IsValid() bool {
	switch t {
	case DocTypeQuote, DocTypeInvoice, DocTypePurchaseOrder:
		return true
	}
	return false
}

// String returns the string representation of DocType
func (t DocType) String() string {
	return string(t)
}

// DisplayName returns the human readable name
func (t DocType) DisplayName() string {
	switch t {
	case DocTypeQuote:
		return "Quote"
	case DocTypeInvoice:
		return "Invoice"
	case DocTypePurchaseOrder:
		return "Purchase Order"
	default:
		return string(t)
	}
}

// Title is the heading printed on rendered documents
func (t DocType) Title() string {
	switch t {
	case DocTypeQuote:
		return "QUOTATION"
	case DocTypeInvoice:
		return "TAX INVOICE"
	case DocTypePurchaseOrder:
		return "PURCHASE ORDER"
	default:
		return string(t)
	}
}

// FileSlug is the doc type segment of exported file names
func (t DocType) FileSlug() string {
	switch t {
	case DocTypePurchaseOrder:
		return "purchase-order"
	default:
		return string(t)
	}
}

// NumberPrefix is the prefix of human-facing document numbers (e.g. Invoice-001)
func (t DocType) NumberPrefix() string {
	switch t {
	case DocTypeQuote:
		return "Quote"
	case DocTypeInvoice:
		return "Invoice"
	case DocTypePurchaseOrder:
		return "PO"
	default:
		return "DOC"
	}
}

// CounterpartyField is the field name used for the counterparty in errors
func (t DocType) CounterpartyField() string {
	if t == DocTypePurchaseOrder {
		return "vendor"
	}
	return "customer"
}

// CounterpartyLabel is the label printed above the counterparty block
func (t DocType) CounterpartyLabel() string {
	if t == DocTypePurchaseOrder {
		return "Vendor"
	}
	return "Bill To"
}

// SecondaryDateField names the optional date that must not precede the document date
func (t DocType) SecondaryDateField() string {
	if t == DocTypeQuote {
		return "validUntil"
	}
	return "dueDate"
}

// SecondaryDateLabel is the printed label for the secondary date
func (t DocType) SecondaryDateLabel() string {
	if t == DocTypeQuote {
		return "Valid Until"
	}
	return "Due Date"
}

// TracksPayments reports whether the document records amounts received
func (t DocType) TracksPayments() bool {
	return t == DocTypeInvoice
}

// AllDocTypes returns all valid DocType values
func AllDocTypes() []DocType {
	return []DocType{DocTypeQuote, DocTypeInvoice, DocTypePurchaseOrder}
}

// ParseDocType accepts both the canonical value and the file slug
func ParseDocType(s string) (DocType, bool) {
	switch s {
	case "quote", "quotes":
		return DocTypeQuote, true
	case "invoice", "invoices":
		return DocTypeInvoice, true
	case "purchase_order", "purchase-order", "purchase-orders", "purchase_orders":
		return DocTypePurchaseOrder, true
	}
	return "", false
}
