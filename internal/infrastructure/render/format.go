package render

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Excel number formats shared by the spreadsheet painter
const (
	NumFmtCurrency           = "#,##0.00"
	NumFmtQuantity           = "#,##0"
	NumFmtFractionalQuantity = "#,##0.00"
)

// DateLayout is the date format printed on documents
const DateLayout = "02/01/2006"

// FormatAmount rounds to 2 decimal places and adds thousands separators.
// This is the only rounding step applied to amounts.
// Example: 1234.5 -> "1,234.50"
func FormatAmount(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).StringFixed(2))
}

// FormatQuantity formats a quantity as a whole number, or with 2 decimals
// when fractional quantities are allowed
func FormatQuantity(q float64, fractional bool) string {
	if fractional {
		return groupThousands(decimal.NewFromFloat(q).StringFixed(2))
	}
	return groupThousands(decimal.NewFromFloat(q).StringFixed(0))
}

// FormatPercent formats a tax rate without trailing zeros.
// Example: 5 -> "5%", 7.25 -> "7.25%"
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).Round(2).String() + "%"
}

// FormatDate formats a date, or returns "" for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// isWhole reports whether v has no fractional part
func isWhole(v float64) bool {
	return v == math.Trunc(v)
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, decPart, hasDec := strings.Cut(fixed, ".")
	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	// "-0.00" is not a meaningful amount
	if sign != "" && strings.Trim(intPart+decPart, "0") == "" {
		sign = ""
	}
	if hasDec {
		return sign + result.String() + "." + decPart
	}
	return sign + result.String()
}
