package render

import (
	"strings"

	"github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/domain/document"
)

// Layout is the format independent plan of a rendered document. Every text
// and amount is computed here once; painters only draw it.
type Layout struct {
	DocType  document.DocType
	Number   string
	Title    string
	Currency string

	Company      Party
	Counterparty Party
	Meta         []Field

	Columns []string
	Items   []ItemRow
	Totals  []TotalRow
	Summary Summary

	Notes       []string
	Terms       []string
	BankDetails []string
	FooterText  string

	Images Images
}

// Party is a named block of address lines
type Party struct {
	Label string
	Name  string
	Lines []string
}

// Field is a labelled value of the metadata block
type Field struct {
	Label string
	Value string
}

// ItemRow is one line item with its raw inputs and its formatted text
type ItemRow struct {
	Serial             int
	Description        string
	Quantity           float64
	UnitPrice          float64
	TaxKind            document.TaxKind
	TaxValue           float64 // percentage or flat amount, depending on TaxKind
	GrossAmount        float64
	TaxAmount          float64
	LineTotal          float64
	AmountReceived     float64
	FractionalQuantity bool

	QuantityText  string
	UnitPriceText string
	TaxRateText   string
	GrossText     string
	TaxAmountText string
	LineTotalText string
	ReceivedText  string
}

// TotalKind identifies a row of the totals block
type TotalKind string

const (
	TotalSubtotal TotalKind = "subtotal"
	TotalTax      TotalKind = "tax"
	TotalTotal    TotalKind = "total"
	TotalReceived TotalKind = "received"
	TotalPending  TotalKind = "pending"
)

// TotalRow is one row of the totals block
type TotalRow struct {
	Kind   TotalKind
	Label  string
	Amount float64
	Text   string
}

// Summary carries the inputs the spreadsheet needs to rebuild the totals
// as formulas
type Summary struct {
	ItemTaxTotal    float64
	FallbackTax     float64
	RecordedPayment float64
	UsesItemTax     bool
	TracksPayments  bool
}

// Total returns the amount of a totals row, and false when the row is absent
func (l *Layout) Total(kind TotalKind) (float64, bool) {
	for _, row := range l.Totals {
		if row.Kind == kind {
			return row.Amount, true
		}
	}
	return 0, false
}

// ItemColumns returns the item table headers of a document type
func ItemColumns(docType document.DocType) []string {
	columns := []string{"S.No", "Description", "Qty", "Unit Price", "Tax %", "Amount", "Tax", "Total"}
	if docType.TracksPayments() {
		columns = append(columns, "Received")
	}
	return columns
}

// BuildLayout plans a document for rendering. Amounts come from the numeric
// model of the document package; nothing is recomputed with other rules.
func BuildLayout(doc *document.Document, settings branding.Settings, counterpartyName string, images Images) (*Layout, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidLayout, "document is nil", nil)
	}
	if len(doc.Items) == 0 {
		return nil, NewRenderError(ErrCodeNoItems, "document has no line items", nil)
	}

	currency := doc.Currency
	if currency == "" {
		currency = document.DefaultCurrency
	}

	layout := &Layout{
		DocType:      doc.Type,
		Number:       doc.Number,
		Title:        doc.Type.Title(),
		Currency:     currency,
		Company:      companyParty(settings),
		Counterparty: counterpartyParty(doc, counterpartyName),
		Meta:         metaFields(doc, currency),
		Columns:      ItemColumns(doc.Type),
		Notes:        HTMLToParagraphs(doc.Notes),
		Terms:        HTMLToParagraphs(doc.Terms),
		BankDetails:  splitLines(settings.BankDetails),
		FooterText:   strings.TrimSpace(settings.FooterText),
		Images:       images,
	}

	tracksPayments := doc.Type.TracksPayments()
	layout.Items = make([]ItemRow, 0, len(doc.Items))
	for i, item := range doc.Items {
		layout.Items = append(layout.Items, itemRow(i+1, item, tracksPayments))
	}

	totals := doc.Totals()
	layout.Summary = Summary{
		ItemTaxTotal:   totals.ItemTaxTotal,
		FallbackTax:    doc.DocumentTax,
		UsesItemTax:    totals.UsesItemTax(),
		TracksPayments: tracksPayments,
	}
	if tracksPayments {
		layout.Summary.RecordedPayment = doc.RecordedPayment
	}

	layout.Totals = []TotalRow{
		totalRow(TotalSubtotal, "Subtotal", totals.Subtotal),
		totalRow(TotalTax, "Tax", totals.Tax),
		totalRow(TotalTotal, "Total ("+currency+")", totals.Total),
	}
	if tracksPayments {
		layout.Totals = append(layout.Totals,
			totalRow(TotalReceived, "Amount Received", totals.AmountReceived),
			totalRow(TotalPending, "Balance Due", totals.Pending()),
		)
	}

	return layout, nil
}

func itemRow(serial int, item document.LineItem, tracksPayments bool) ItemRow {
	line := document.ComputeLineTotals(item)
	kind, value := item.Resolve()
	fractional := item.RentalBasis.AllowsFractionalQuantity() || !isWhole(item.Quantity)

	row := ItemRow{
		Serial:             serial,
		Description:        item.Label(),
		Quantity:           item.Quantity,
		UnitPrice:          item.UnitPrice,
		TaxKind:            kind,
		TaxValue:           value,
		GrossAmount:        line.GrossAmount,
		TaxAmount:          line.TaxAmount,
		LineTotal:          line.LineTotal,
		FractionalQuantity: fractional,
		QuantityText:       FormatQuantity(item.Quantity, fractional),
		UnitPriceText:      FormatAmount(item.UnitPrice),
		GrossText:          FormatAmount(line.GrossAmount),
		TaxAmountText:      FormatAmount(line.TaxAmount),
		LineTotalText:      FormatAmount(line.LineTotal),
	}
	if vehicle := strings.TrimSpace(item.VehicleRef); vehicle != "" && vehicle != row.Description {
		row.Description += " (" + vehicle + ")"
	}

	switch kind {
	case document.TaxKindPercent:
		row.TaxRateText = FormatPercent(value)
	case document.TaxKindFlat:
		row.TaxRateText = "Flat"
	default:
		row.TaxRateText = "-"
	}

	if tracksPayments {
		row.AmountReceived = item.AmountReceived
		row.ReceivedText = FormatAmount(item.AmountReceived)
	}
	return row
}

func totalRow(kind TotalKind, label string, amount float64) TotalRow {
	return TotalRow{Kind: kind, Label: label, Amount: amount, Text: FormatAmount(amount)}
}

func companyParty(settings branding.Settings) Party {
	party := Party{Name: strings.TrimSpace(settings.CompanyName)}
	party.Lines = appendNonEmpty(party.Lines, splitLines(settings.Address)...)
	if phone := strings.TrimSpace(settings.Phone); phone != "" {
		party.Lines = append(party.Lines, "Tel: "+phone)
	}
	party.Lines = appendNonEmpty(party.Lines, settings.Email, settings.Website)
	if vat := strings.TrimSpace(settings.VATNumber); vat != "" {
		party.Lines = append(party.Lines, "TRN: "+vat)
	}
	return party
}

func counterpartyParty(doc *document.Document, name string) Party {
	contact := doc.Counterparty.Contact
	party := Party{
		Label: doc.Type.CounterpartyLabel(),
		Name:  strings.TrimSpace(name),
	}
	if party.Name == "" {
		party.Name = doc.CounterpartyName()
	}

	// The person's name is listed separately when the company is printed
	if person := strings.TrimSpace(contact.Name); person != "" && person != party.Name {
		party.Lines = append(party.Lines, person)
	}
	party.Lines = appendNonEmpty(party.Lines, splitLines(contact.Address)...)
	party.Lines = appendNonEmpty(party.Lines, contact.Phone, contact.Email)
	if trn := strings.TrimSpace(contact.TRN); trn != "" {
		party.Lines = append(party.Lines, "TRN: "+trn)
	}
	return party
}

func metaFields(doc *document.Document, currency string) []Field {
	fields := []Field{
		{Label: doc.Type.DisplayName() + " No.", Value: doc.Number},
		{Label: "Date", Value: FormatDate(doc.Date)},
	}
	if secondary := doc.SecondaryDate(); secondary != nil && !secondary.IsZero() {
		fields = append(fields, Field{Label: doc.Type.SecondaryDateLabel(), Value: FormatDate(*secondary)})
	}
	fields = append(fields,
		Field{Label: "Currency", Value: currency},
		Field{Label: "Status", Value: doc.Status.DisplayText()},
	)
	return fields
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func appendNonEmpty(lines []string, values ...string) []string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, v)
		}
	}
	return lines
}
