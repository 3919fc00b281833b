package steleto

import (
	"fmt"
	"html"
	"io"
)

func writeHTML(w io.Writer, header Header, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "<table>"); err != nil {
		return err
	}
	if err := writeHTMLSection(w, "thead", "th", [][]string{header}); err != nil {
		return err
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = cells(rec, header)
	}
	if err := writeHTMLSection(w, "tbody", "td", rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "</table>")
	return err
}

func writeHTMLSection(w io.Writer, section, cell string, rows [][]string) error {
	if _, err := fmt.Fprintf(w, "  <%s>\n", section); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, "    <tr>"); err != nil {
			return err
		}
		for _, v := range row {
			if _, err := fmt.Fprintf(w, "      <%s>%s</%s>\n", cell, html.EscapeString(v), cell); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "    </tr>"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  </%s>\n", section)
	return err
}
