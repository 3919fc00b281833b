package steleto

import (
	"io"
	"iter"
	"slices"
)

func writeJSON(w io.Writer, records []Record) error {
	_, err := streamJSON(w, slices.Values(records))
	return err
}

func streamJSON(w io.Writer, seq iter.Seq[Record]) (int, error) {
	if _, err := io.WriteString(w, "["); err != nil {
		return 0, err
	}
	n := 0
	var encErr error
	for rec := range seq {
		if n > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				encErr = err
				break
			}
		}
		n++
		enc := jsonAPI.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(rec); err != nil {
			encErr = err
			break
		}
	}
	if encErr != nil {
		return n, encErr
	}
	_, err := io.WriteString(w, "]\n")
	return n, err
}
