package steleto

import (
	"fmt"
	"io"
	"strings"
)

var tsvEscaper = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func writeTSV(w io.Writer, header Header, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := writeTSVRow(w, header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writeTSVRow(w, cells(rec, header)); err != nil {
			return err
		}
	}
	return nil
}

// writeTSVRow replaces tabs and line breaks inside values with spaces, since
// TSV has no quoting.
func writeTSVRow(w io.Writer, row []string) error {
	escaped := make([]string, len(row))
	for i, v := range row {
		escaped[i] = tsvEscaper.Replace(v)
	}
	_, err := fmt.Fprintln(w, strings.Join(escaped, "\t"))
	return err
}
