// Package steleto converts delimited text or JSON into arbitrary text by
// feeding each record through a template.
//
// The pipeline is pull-based and single-threaded:
//
//	text → [Tokenizer] → rows → [Projector] → records → [Template] → output
//
// Stopping iteration at any point releases all of its state.
//
// # Tokenizing
//
// [Tokenizer.Rows] splits text into [Row] values. Fields are separated by a
// single delimiter rune (tab by default). With quoting enabled, a field whose
// first non-space character is a quote may contain delimiters and line
// breaks, and a doubled quote stands for one quote. A row still inside a
// quote at the end of the input is reported as a [MalformedRowError] and
// skipped; scanning resumes on the following line.
//
// # Projecting
//
// [Projector.Records] labels each row with a [Header] and yields a [Record]:
// a map holding only the non-empty values. The header is either the first
// row after any empty lines or the positional names field1, field2, and so
// on. Data rows of only blank fields are skipped. Rows wider or narrower than
// the header are truncated rather than rejected.
//
// # Rendering
//
// A [Template] is a Go [text/template]. Templates defining HEADER, RECORD and
// FOOTER render once per section, and per record for RECORD:
//
//	{{define "HEADER"}}<people generated="{{.options.timestamp}}">{{end}}
//	{{define "RECORD"}}  <person name="{{.data.name | xmlescape}}"/>{{end}}
//	{{define "FOOTER"}}</people>{{end}}
//
// Other templates run once and range over .data. Helper functions come from
// an explicit [FuncMap]; see [DefaultFuncs].
//
// Records can also be exported directly as JSON, JSONL, YAML, CSV, TSV,
// Markdown, HTML or XML; see [Format].
//
// # Converting
//
// [Converter] ties the pieces together:
//
//	cfg := steleto.DefaultConfig()
//	cfg.HasHeader = true
//	cfg.Template = tmpl
//	c, err := steleto.New(cfg)
//	res, err := c.Convert(os.Stdout, input)
//
// # Errors
//
//   - [ErrMalformedRow]: a row was skipped ([MalformedRowError])
//   - [ErrConfiguration]: a required setting is missing or invalid ([ConfigError])
//   - [ErrRender]: the template or writer failed
//   - [ErrUnsupportedFormat]: unknown format string
//   - [ErrInvalidTemplate]: template syntax error
package steleto
