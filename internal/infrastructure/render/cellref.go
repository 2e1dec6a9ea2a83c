package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ColumnName converts a 1-based column number to its letters (27 -> "AA")
func ColumnName(col int) (string, error) {
	return excelize.ColumnNumberToName(col)
}

// CellRef converts a 1-based column and row to A1 notation (27, 9 -> "AA9")
func CellRef(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

// RangeRef returns the A1 range spanning two cells ("F9:F10")
func RangeRef(fromCol, fromRow, toCol, toRow int) (string, error) {
	from, err := CellRef(fromCol, fromRow)
	if err != nil {
		return "", err
	}
	to, err := CellRef(toCol, toRow)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", from, to), nil
}
