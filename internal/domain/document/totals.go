package document

// LineTotals are the derived amounts of a single line item
type LineTotals struct {
	GrossAmount float64 `json:"grossAmount"`
	TaxAmount   float64 `json:"lineTaxAmount"`
	LineTotal   float64 `json:"lineTotal"`
}

// DocumentTotals are the derived amounts of a document. Values are unrounded;
// rounding to 2 decimals happens once, at render time.
type DocumentTotals struct {
	Subtotal       float64 `json:"subtotal"`
	ItemTaxTotal   float64 `json:"itemTaxTotal"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	AmountReceived float64 `json:"amountReceived"`
}

// Pending is the outstanding amount
func (t DocumentTotals) Pending() float64 {
	return t.Total - t.AmountReceived
}

// UsesItemTax reports whether item-level tax overrides the document-level tax
func (t DocumentTotals) UsesItemTax() bool {
	return t.ItemTaxTotal > 0
}

// ComputeLineTotals computes gross, tax and total for one item
func ComputeLineTotals(item LineItem) LineTotals {
	gross := item.Quantity * item.UnitPrice
	tax := item.TaxOn(item.Quantity, item.UnitPrice)
	return LineTotals{
		GrossAmount: gross,
		TaxAmount:   tax,
		LineTotal:   gross + tax,
	}
}

// ComputeDocumentTotals aggregates item totals. When the item-level tax sums
// to more than zero it replaces fallbackTax entirely; otherwise fallbackTax
// (the document-level tax) is used.
func ComputeDocumentTotals(items []LineItem, fallbackTax float64) DocumentTotals {
	var totals DocumentTotals
	for _, item := range items {
		line := ComputeLineTotals(item)
		totals.Subtotal += line.GrossAmount
		totals.ItemTaxTotal += line.TaxAmount
		totals.AmountReceived += item.AmountReceived
	}

	totals.Tax = fallbackTax
	if totals.ItemTaxTotal > 0 {
		totals.Tax = totals.ItemTaxTotal
	}
	totals.Total = totals.Subtotal + totals.Tax
	return totals
}
