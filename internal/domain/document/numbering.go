package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numberDigits is the minimum zero-padded width of the numeric part
const numberDigits = 3

var numberPatterns = map[DocType]*regexp.Regexp{
	DocTypeQuote:         regexp.MustCompile(`^Quote-(\d{3,})$`),
	DocTypeInvoice:       regexp.MustCompile(`^Invoice-(\d{3,})$`),
	DocTypePurchaseOrder: regexp.MustCompile(`^PO-(\d{3,})$`),
}

// ValidateNumberFormat checks that number follows <Prefix>-NNN for the type
func ValidateNumberFormat(docType DocType, number string) error {
	pattern, ok := numberPatterns[docType]
	if !ok {
		return fmt.Errorf("unknown document type %q", docType)
	}
	if !pattern.MatchString(strings.TrimSpace(number)) {
		return fmt.Errorf("number must look like %s-%0*d", docType.NumberPrefix(), numberDigits, 1)
	}
	return nil
}

// sequenceOf extracts the numeric part of a well-formed number
func sequenceOf(docType DocType, number string) (int, bool) {
	pattern, ok := numberPatterns[docType]
	if !ok {
		return 0, false
	}
	m := pattern.FindStringSubmatch(strings.TrimSpace(number))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextNumber returns the number following the highest well-formed existing
// number of the type. Malformed numbers are ignored.
func NextNumber(docType DocType, existing []string) string {
	highest := 0
	for _, number := range existing {
		if n, ok := sequenceOf(docType, number); ok && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s-%0*d", docType.NumberPrefix(), numberDigits, highest+1)
}
