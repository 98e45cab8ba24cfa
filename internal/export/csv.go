// Package export produces the downloadable spreadsheet and printable
// document representations of entity listings.
package export

import (
	"encoding/csv"
	"io"
)

// WriteTabular serialises rows to a CSV spreadsheet with the given column
// header. Every row must have the same arity as the header.
func WriteTabular(w io.Writer, columns []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
