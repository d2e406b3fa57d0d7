package utils

import (
	"encoding/csv"
	"errors"
	"io"
)

// ErrNoData means there are no rows to export. Distinct from a storage
// fault so the handler can answer "nothing to download" instead of 500.
var ErrNoData = errors.New("no data to export")

// WriteCSV serializes rows in the given fixed column order, header first,
// with standard CSV quoting.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
