package steleto

import (
	"iter"
	"strconv"
	"strings"
)

// Header names the positions of a Row.
type Header []string

// SynthesizeHeader returns the positional names field1 through fieldN.
func SynthesizeHeader(n int) Header {
	h := make(Header, n)
	for i := range h {
		h[i] = fieldName(i)
	}
	return h
}

func fieldName(i int) string {
	return "field" + strconv.Itoa(i+1)
}

// Record maps field names to non-empty values.
type Record map[string]string

// Project labels the values of row with header. Positions beyond the shorter
// of the two are dropped, as are values that are empty after trimming.
func Project(row Row, header Header) Record {
	rec := make(Record, min(len(row), len(header)))
	for i := 0; i < len(row) && i < len(header); i++ {
		if strings.TrimSpace(row[i]) == "" {
			continue
		}
		rec[header[i]] = row[i]
	}
	return rec
}

// Projector turns rows into records. It is single-use: the header it
// resolves belongs to one pass over one row sequence.
type Projector struct {
	hasHeader bool
	header    Header
}

// NewProjector returns a Projector. With hasHeader set, the first row that is
// not an empty line names the fields, even if every name is blank; otherwise
// fields are named field1..fieldN.
func NewProjector(hasHeader bool) *Projector {
	return &Projector{hasHeader: hasHeader}
}

// Header returns the header resolved so far. Without a header row it is as
// wide as the widest row seen.
func (p *Projector) Header() Header {
	return p.header
}

// Records returns the records of rows. Rows whose fields are all blank are
// skipped.
func (p *Projector) Records(rows iter.Seq[Row]) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		needHeader := p.hasHeader
		for row := range rows {
			if needHeader {
				if isEmptyLine(row) {
					continue
				}
				p.header = headerFromRow(row)
				needHeader = false
				continue
			}
			if isBlankRow(row) {
				continue
			}
			if !p.hasHeader && len(row) > len(p.header) {
				p.header = SynthesizeHeader(len(row))
			}
			if !yield(Project(row, p.header)) {
				return
			}
		}
	}
}

func headerFromRow(row Row) Header {
	h := make(Header, len(row))
	for i, name := range row {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fieldName(i)
		}
		h[i] = name
	}
	return h
}

// isEmptyLine reports whether row came from a line with no delimiters and
// nothing but spaces.
func isEmptyLine(row Row) bool {
	return len(row) == 0 || len(row) == 1 && strings.TrimSpace(row[0]) == ""
}

func isBlankRow(row Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
