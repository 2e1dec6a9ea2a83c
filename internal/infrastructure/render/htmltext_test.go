package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLToParagraphs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"blank", "   \n ", nil},
		{"plain text", "Payment within 30 days", []string{"Payment within 30 days"}},
		{"paragraphs", "<p>First</p><p>Second</p>", []string{"First", "Second"}},
		{"line breaks", "One<br>Two<BR/>Three<br />Four", []string{"One", "Two", "Three", "Four"}},
		{"divs", "<div>Fuel not included</div><div>Salik charged at cost</div>", []string{"Fuel not included", "Salik charged at cost"}},
		{"inline tags stripped", "<p><strong>Deposit</strong> of <em>AED 1,000</em></p>", []string{"Deposit of AED 1,000"}},
		{"entities decoded", "<p>Tom &amp; Jerry &lt;LLC&gt;&nbsp;</p>", []string{"Tom & Jerry <LLC>"}},
		{"empty paragraphs dropped", "<p>A</p><p><br></p><p>B</p>", []string{"A", "B"}},
		{"crlf", "Line 1\r\nLine 2", []string{"Line 1", "Line 2"}},
		{"attributes", `<p class="ql-align-center">Centered</p>`, []string{"Centered"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTMLToParagraphs(tt.input))
		})
	}
}
