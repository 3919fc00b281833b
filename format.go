package steleto

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Format selects how records are rendered.
type Format string

const (
	// TemplateFormat renders through the template given in [Config].
	TemplateFormat Format = "template"

	JSON     Format = "json"
	JSONL    Format = "jsonl"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	TSV      Format = "tsv"
	Markdown Format = "markdown"
	HTML     Format = "html"
	XML      Format = "xml"
)

const goTemplatePrefix = "go-template="

var formats = []Format{TemplateFormat, JSON, JSONL, YAML, CSV, TSV, Markdown, HTML, XML}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all static format names.
// GoTemplate is not included because it is parameterized.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// GoTemplate returns a Format that renders records with an inline template
// instead of a template file.
func GoTemplate(tmpl string) Format {
	return Format(goTemplatePrefix + tmpl)
}

// Inline returns the template text of a [GoTemplate] format.
func (f Format) Inline() (string, bool) {
	return strings.CutPrefix(string(f), goTemplatePrefix)
}

// IsTemplate reports whether f renders through a template.
func (f Format) IsTemplate() bool {
	_, inline := f.Inline()
	return f == TemplateFormat || inline
}

// ParseFormat parses a format string. Recognizes all static formats and
// go-template=<tmpl> strings.
func ParseFormat(s string) (Format, error) {
	if strings.HasPrefix(s, goTemplatePrefix) {
		return Format(s), nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Write renders records in an export format, with columns in header order.
// Template formats are rendered by [Template] instead.
func Write(w io.Writer, f Format, header Header, records []Record) error {
	switch f {
	case JSON:
		return writeJSON(w, records)
	case JSONL:
		return writeJSONL(w, records)
	case YAML:
		return writeYAML(w, header, records)
	case CSV:
		return writeCSV(w, header, records)
	case TSV:
		return writeTSV(w, header, records)
	case Markdown:
		return writeMarkdown(w, header, records)
	case HTML:
		return writeHTML(w, header, records)
	case XML:
		return writeXML(w, header, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Marshal renders records and returns the bytes.
func Marshal(f Format, header Header, records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, header, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cells lays rec out in header order.
func cells(rec Record, header Header) []string {
	out := make([]string, len(header))
	for i, name := range header {
		out[i] = rec[name]
	}
	return out
}
