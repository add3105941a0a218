package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders the table as CSV. A semicolon delimiter keeps the files
// usable in French-locale spreadsheet software; pass ',' for plain CSV.
func WriteCSV(w io.Writer, table Table, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
