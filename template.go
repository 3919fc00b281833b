package steleto

import (
	"fmt"
	"io"
	"iter"
	"text/template"
)

// Section names recognized in a template group.
const (
	SectionHeader = "HEADER"
	SectionRecord = "RECORD"
	SectionFooter = "FOOTER"
)

// Template renders records with a Go text/template.
//
// A template that defines any of HEADER, RECORD or FOOTER is a group: HEADER
// and FOOTER run once with .options bound, RECORD runs once per record with
// .data and .options bound, and each run is followed by a newline.
// Any other template runs once with .data bound to the record sequence:
//
//	{{range .data}}{{.name}} is {{.age}}
//	{{end}}
type Template struct {
	tmpl    *template.Template
	grouped bool
}

// ParseTemplate parses text. Map keys missing from a record render empty.
func ParseTemplate(name, text string, funcs FuncMap) (*Template, error) {
	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(template.FuncMap(funcs)).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	grouped := false
	for _, s := range []string{SectionHeader, SectionRecord, SectionFooter} {
		if tmpl.Lookup(s) != nil {
			grouped = true
		}
	}
	return &Template{tmpl: tmpl, grouped: grouped}, nil
}

// Grouped reports whether the template defines HEADER, RECORD or FOOTER.
func (t *Template) Grouped() bool { return t.grouped }

// Render writes records through the template and returns how many records
// it consumed.
func (t *Template) Render(w io.Writer, records iter.Seq[Record], options map[string]string) (int, error) {
	if t.grouped {
		return t.renderGroup(w, records, options)
	}
	return t.renderDocument(w, records, options)
}

func (t *Template) renderGroup(w io.Writer, records iter.Seq[Record], options map[string]string) (int, error) {
	if err := t.section(w, SectionHeader, map[string]any{"options": options}); err != nil {
		return 0, err
	}
	n := 0
	for rec := range records {
		n++
		if err := t.section(w, SectionRecord, map[string]any{"data": rec, "options": options}); err != nil {
			return n, err
		}
	}
	return n, t.section(w, SectionFooter, map[string]any{"options": options})
}

func (t *Template) section(w io.Writer, name string, data any) error {
	if t.tmpl.Lookup(name) == nil {
		return nil
	}
	if err := t.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return renderError(err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return renderError(err)
	}
	return nil
}

// renderDocument counts the records of the first pass over .data only, so a
// template ranging twice does not double the count.
func (t *Template) renderDocument(w io.Writer, records iter.Seq[Record], options map[string]string) (int, error) {
	n, started := 0, false
	data := iter.Seq[Record](func(yield func(Record) bool) {
		first := !started
		started = true
		for rec := range records {
			if first {
				n++
			}
			if !yield(rec) {
				return
			}
		}
	})
	if err := t.tmpl.Execute(w, map[string]any{"data": data, "options": options}); err != nil {
		return n, renderError(err)
	}
	return n, nil
}
