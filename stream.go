package steleto

import (
	"fmt"
	"io"
	"iter"
	"slices"
)

// WriteIter renders records from seq as they arrive and returns how many it
// consumed. JSON and JSONL are written record by record. The tabular formats
// need the final header, which a header-less source only knows once every row
// has been seen, so their records are collected first; header is called after
// seq is exhausted.
func WriteIter(w io.Writer, f Format, header func() Header, seq iter.Seq[Record]) (int, error) {
	switch f {
	case JSON:
		return streamJSON(w, seq)
	case JSONL:
		return streamJSONL(w, seq)
	case YAML, CSV, TSV, Markdown, HTML, XML:
		return streamCollect(w, f, header, seq)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

func streamCollect(w io.Writer, f Format, header func() Header, seq iter.Seq[Record]) (int, error) {
	records := slices.Collect(seq)
	return len(records), Write(w, f, header(), records)
}
