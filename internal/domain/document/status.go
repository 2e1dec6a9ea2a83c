package document

// Status is workflow metadata on a document. Any valid status may be set at
// any time; it does not guard other operations.
type Status string

const (
	StatusDraft Status = "draft"

	// Quote statuses
	StatusQuoteSent      Status = "sent"
	StatusQuoteAccepted  Status = "accepted"
	StatusQuoteRejected  Status = "rejected"
	StatusQuoteConverted Status = "converted"

	// Invoice statuses
	StatusInvoiceSent     Status = "invoice_sent"
	StatusPaymentReceived Status = "payment_received"

	// Purchase order statuses
	StatusPOSent      Status = "sent"
	StatusPOReceived  Status = "received"
	StatusPOCancelled Status = "cancelled"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// StatusesFor returns the valid statuses of a document type
func StatusesFor(t DocType) []Status {
	switch t {
	case DocTypeQuote:
		return []Status{StatusDraft, StatusQuoteSent, StatusQuoteAccepted, StatusQuoteRejected, StatusQuoteConverted}
	case DocTypeInvoice:
		return []Status{StatusDraft, StatusInvoiceSent, StatusPaymentReceived}
	case DocTypePurchaseOrder:
		return []Status{StatusDraft, StatusPOSent, StatusPOReceived, StatusPOCancelled}
	}
	return nil
}

// IsValidFor checks the status against the enum of the document type
func (s Status) IsValidFor(t DocType) bool {
	for _, candidate := range StatusesFor(t) {
		if candidate == s {
			return true
		}
	}
	return false
}

// DisplayText returns a human readable status label
func (s Status) DisplayText() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusQuoteSent:
		return "Sent"
	case StatusQuoteAccepted:
		return "Accepted"
	case StatusQuoteRejected:
		return "Rejected"
	case StatusQuoteConverted:
		return "Converted"
	case StatusInvoiceSent:
		return "Invoice Sent"
	case StatusPaymentReceived:
		return "Payment Received"
	case StatusPOReceived:
		return "Received"
	case StatusPOCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}
