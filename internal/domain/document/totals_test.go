package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLineTotals(t *testing.T) {
	tests := []struct {
		name      string
		item      LineItem
		wantGross float64
		wantTax   float64
		wantTotal float64
	}{
		{
			name:      "percent tax",
			item:      LineItem{Quantity: 2, UnitPrice: 100, TaxRule: PercentTax(5)},
			wantGross: 200,
			wantTax:   10,
			wantTotal: 210,
		},
		{
			name:      "flat tax",
			item:      LineItem{Quantity: 3, UnitPrice: 50, TaxRule: FlatTax(12.5)},
			wantGross: 150,
			wantTax:   12.5,
			wantTotal: 162.5,
		},
		{
			name:      "no tax",
			item:      LineItem{Quantity: 1, UnitPrice: 99.99},
			wantGross: 99.99,
			wantTax:   0,
			wantTotal: 99.99,
		},
		{
			name:      "percent wins over flat",
			item:      LineItem{Quantity: 2, UnitPrice: 100, TaxRule: TaxRule{Percent: ptr(5), Flat: ptr(70)}},
			wantGross: 200,
			wantTax:   10,
			wantTotal: 210,
		},
		{
			name:      "fractional hourly quantity",
			item:      LineItem{Quantity: 2.5, UnitPrice: 40, RentalBasis: RentalBasisHourly, TaxRule: PercentTax(5)},
			wantGross: 100,
			wantTax:   5,
			wantTotal: 105,
		},
		{
			name:      "zero quantity",
			item:      LineItem{Quantity: 0, UnitPrice: 100, TaxRule: PercentTax(5)},
			wantGross: 0,
			wantTax:   0,
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLineTotals(tt.item)
			assert.InDelta(t, tt.wantGross, got.GrossAmount, 1e-9)
			assert.InDelta(t, tt.wantTax, got.TaxAmount, 1e-9)
			assert.InDelta(t, tt.wantTotal, got.LineTotal, 1e-9)
		})
	}
}

func TestComputeLineTotals_Invariants(t *testing.T) {
	quantities := []float64{0, 1, 2, 3.5, 17, 1000}
	prices := []float64{0, 0.01, 19.99, 100, 2500.5}
	rules := []TaxRule{NoTax(), PercentTax(0), PercentTax(5), PercentTax(100), FlatTax(7)}

	for _, q := range quantities {
		for _, p := range prices {
			for _, r := range rules {
				got := ComputeLineTotals(LineItem{Quantity: q, UnitPrice: p, TaxRule: r})
				assert.Equal(t, q*p, got.GrossAmount)
				assert.Equal(t, got.GrossAmount+got.TaxAmount, got.LineTotal)
			}
		}
	}
}

func TestComputeDocumentTotals(t *testing.T) {
	t.Run("item tax overrides document tax", func(t *testing.T) {
		items := []LineItem{
			{Quantity: 2, UnitPrice: 100, TaxRule: PercentTax(5)},
			{Quantity: 1, UnitPrice: 50, TaxRule: PercentTax(10)},
		}

		got := ComputeDocumentTotals(items, 999)

		assert.InDelta(t, 250, got.Subtotal, 1e-9)
		assert.InDelta(t, 15, got.ItemTaxTotal, 1e-9)
		assert.InDelta(t, 15, got.Tax, 1e-9)
		assert.InDelta(t, 265, got.Total, 1e-9)
		assert.True(t, got.UsesItemTax())
	})

	t.Run("falls back to document tax when items carry none", func(t *testing.T) {
		items := []LineItem{{Quantity: 2, UnitPrice: 100, TaxRule: FlatTax(0)}}

		got := ComputeDocumentTotals(items, 20)

		assert.InDelta(t, 200, got.Subtotal, 1e-9)
		assert.InDelta(t, 20, got.Tax, 1e-9)
		assert.InDelta(t, 220, got.Total, 1e-9)
		assert.False(t, got.UsesItemTax())
	})

	t.Run("sums amount received", func(t *testing.T) {
		items := []LineItem{
			{Quantity: 1, UnitPrice: 100, AmountReceived: 40},
			{Quantity: 1, UnitPrice: 100, AmountReceived: 60},
		}

		got := ComputeDocumentTotals(items, 0)

		assert.InDelta(t, 100, got.AmountReceived, 1e-9)
		assert.InDelta(t, 100, got.Pending(), 1e-9)
	})

	t.Run("empty items", func(t *testing.T) {
		got := ComputeDocumentTotals(nil, 5)
		assert.Equal(t, DocumentTotals{Tax: 5, Total: 5}, got)
	})

	t.Run("total equals subtotal plus tax", func(t *testing.T) {
		items := []LineItem{
			{Quantity: 3, UnitPrice: 33.33, TaxRule: PercentTax(5)},
			{Quantity: 7, UnitPrice: 0.1, TaxRule: FlatTax(1.11)},
			{Quantity: 1.5, UnitPrice: 12.75},
		}
		got := ComputeDocumentTotals(items, 0)
		assert.Equal(t, got.Subtotal+got.Tax, got.Total)

		var lineTax float64
		for _, item := range items {
			lineTax += ComputeLineTotals(item).TaxAmount
		}
		assert.Equal(t, lineTax, got.Tax)
	})

	t.Run("idempotent and does not mutate items", func(t *testing.T) {
		items := []LineItem{
			{Quantity: 2, UnitPrice: 100, TaxRule: PercentTax(5)},
			{Quantity: 4, UnitPrice: 12.5},
		}
		snapshot := append([]LineItem(nil), items...)

		first := ComputeDocumentTotals(items, 3)
		second := ComputeDocumentTotals(items, 3)

		assert.Equal(t, first, second)
		assert.Equal(t, snapshot, items)
	})
}

func TestTaxRule_Resolve(t *testing.T) {
	kind, value := NoTax().Resolve()
	assert.Equal(t, TaxKindNone, kind)
	assert.Zero(t, value)

	kind, value = FlatTax(3).Resolve()
	assert.Equal(t, TaxKindFlat, kind)
	assert.Equal(t, 3.0, value)

	kind, value = TaxRule{Percent: ptr(5), Flat: ptr(3)}.Resolve()
	assert.Equal(t, TaxKindPercent, kind)
	assert.Equal(t, 5.0, value)
}

func ptr(v float64) *float64 {
	return &v
}
