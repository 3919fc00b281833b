package steleto

import (
	"io"
	"iter"
	"slices"
)

func writeJSONL(w io.Writer, records []Record) error {
	_, err := streamJSONL(w, slices.Values(records))
	return err
}

func streamJSONL(w io.Writer, seq iter.Seq[Record]) (int, error) {
	n := 0
	enc := jsonAPI.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for rec := range seq {
		n++
		if err := enc.Encode(rec); err != nil {
			return n, err
		}
	}
	return n, nil
}
