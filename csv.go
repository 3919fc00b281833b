package steleto

import (
	"encoding/csv"
	"io"
)

func writeCSV(w io.Writer, header Header, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(cells(rec, header)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
