package steleto

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// InputFormat names the kind of text a [Converter] reads.
type InputFormat string

const (
	Delimited InputFormat = "delimited"
	JSONInput InputFormat = "json"
)

// Option keys added to the options of every conversion unless the caller
// already set them.
const (
	OptionSource      = "source"
	OptionDestination = "destination"
	OptionTemplate    = "template"
	OptionTimestamp   = "timestamp"
	OptionRunID       = "runid"
)

// Config describes one conversion.
type Config struct {
	// SourceName, DestinationName and TemplateName are passed to templates
	// as options; the converter does not open them.
	SourceName      string
	DestinationName string
	TemplateName    string

	// Template is the template text. Required for TemplateFormat.
	Template string
	// Format selects the renderer. Default: TemplateFormat.
	Format Format
	// Input selects the reader. Default: Delimited.
	Input InputFormat

	Delimiter      rune
	HasHeader      bool
	TrimWhitespace bool
	QuotesEnclose  bool

	// Strict stops the conversion at the first malformed row.
	Strict bool

	// Options are passed through to templates as .options.
	Options map[string]string
}

// DefaultConfig returns a configuration for tab-delimited input rendered
// through a template.
func DefaultConfig() Config {
	return Config{
		Format:         TemplateFormat,
		Input:          Delimited,
		Delimiter:      '\t',
		TrimWhitespace: true,
		QuotesEnclose:  true,
	}
}

// Result summarizes a conversion.
type Result struct {
	// Records is the number of records rendered.
	Records int
	// Malformed lists the rows that were skipped, once per line.
	Malformed []*MalformedRowError
}

// Option customizes a [Converter].
type Option func(*Converter)

// WithLogger sets the logger. Malformed rows are logged as errors and
// conversion summaries at V(1). Default: discard.
func WithLogger(l logr.Logger) Option {
	return func(c *Converter) { c.log = l }
}

// WithFuncs sets the template function table. Default: [DefaultFuncs].
func WithFuncs(funcs FuncMap) Option {
	return func(c *Converter) { c.funcs = funcs }
}

// WithClock sets the clock used for the timestamp option.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// WithRunID sets the generator for the runid option.
func WithRunID(id func() string) Option {
	return func(c *Converter) { c.runID = id }
}

// Converter renders delimited or JSON text through a template or an export
// format. It holds no per-conversion state and may be reused.
type Converter struct {
	cfg   Config
	tmpl  *Template
	funcs FuncMap
	log   logr.Logger
	now   func() time.Time
	runID func() string
}

// New validates cfg and parses its template. Invalid settings are reported
// as a *ConfigError, template syntax errors as ErrInvalidTemplate.
func New(cfg Config, opts ...Option) (*Converter, error) {
	if cfg.Format == "" {
		cfg.Format = TemplateFormat
	}
	if cfg.Input == "" {
		cfg.Input = Delimited
	}
	c := &Converter{
		cfg:   cfg,
		log:   logr.Discard(),
		now:   time.Now,
		runID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.funcs == nil {
		c.funcs = DefaultFuncs()
	}

	switch cfg.Input {
	case Delimited:
		if _, err := NewTokenizer(c.tokenizerOptions(nil)); err != nil {
			return nil, err
		}
	case JSONInput:
	default:
		return nil, &ConfigError{Field: "input", Message: fmt.Sprintf("unknown input format %q", cfg.Input)}
	}

	text, inline := cfg.Format.Inline()
	switch {
	case inline:
	case cfg.Format == TemplateFormat:
		if strings.TrimSpace(cfg.Template) == "" {
			return nil, &ConfigError{Field: "template", Message: "template required"}
		}
		text = cfg.Template
	default:
		if _, err := ParseFormat(string(cfg.Format)); err != nil {
			return nil, err
		}
		return c, nil
	}
	name := cfg.TemplateName
	if name == "" {
		name = string(TemplateFormat)
	}
	tmpl, err := ParseTemplate(name, text, c.funcs)
	if err != nil {
		return nil, err
	}
	c.tmpl = tmpl
	return c, nil
}

func (c *Converter) tokenizerOptions(onMalformed func(*MalformedRowError) bool) TokenizerOptions {
	return TokenizerOptions{
		Delimiter:      c.cfg.Delimiter,
		QuotesEnclose:  c.cfg.QuotesEnclose,
		TrimWhitespace: c.cfg.TrimWhitespace,
		OnMalformed:    onMalformed,
	}
}

// Convert renders input to w. Malformed rows are skipped and listed in the
// result; in strict mode the first one ends the conversion and is returned.
func (c *Converter) Convert(w io.Writer, input string) (Result, error) {
	var res Result
	var stopped error
	seen := map[int]bool{}
	onMalformed := func(e *MalformedRowError) bool {
		if !seen[e.Line] {
			seen[e.Line] = true
			res.Malformed = append(res.Malformed, e)
			c.log.Error(e, "skipping malformed row", "source", c.cfg.SourceName, "line", e.Line)
		}
		if c.cfg.Strict {
			stopped = e
			return false
		}
		return true
	}

	records, header, sourceErr, err := c.source(input, onMalformed)
	if err != nil {
		return res, err
	}

	if c.tmpl != nil {
		res.Records, err = c.tmpl.Render(w, records, c.options())
	} else {
		res.Records, err = WriteIter(w, c.cfg.Format, header, records)
		if err != nil {
			err = renderError(err)
		}
	}
	switch {
	case stopped != nil:
		return res, stopped
	case err != nil:
		return res, err
	}
	if err := sourceErr(); err != nil {
		return res, err
	}
	c.log.V(1).Info("converted", "source", c.cfg.SourceName, "records", res.Records, "malformed", len(res.Malformed))
	return res, nil
}

func (c *Converter) source(input string, onMalformed func(*MalformedRowError) bool) (iter.Seq[Record], func() Header, func() error, error) {
	if c.cfg.Input == JSONInput {
		src := DecodeJSON(input)
		return src.Records(), src.Header, src.Err, nil
	}
	tok, err := NewTokenizer(c.tokenizerOptions(onMalformed))
	if err != nil {
		return nil, nil, nil, err
	}
	p := NewProjector(c.cfg.HasHeader)
	return p.Records(tok.Rows(input)), p.Header, func() error { return nil }, nil
}

// options merges the caller's options with the automatic keys.
func (c *Converter) options() map[string]string {
	opts := make(map[string]string, len(c.cfg.Options)+5)
	maps.Copy(opts, c.cfg.Options)
	auto := map[string]string{
		OptionSource:      c.cfg.SourceName,
		OptionDestination: c.cfg.DestinationName,
		OptionTemplate:    c.cfg.TemplateName,
		OptionTimestamp:   c.now().UTC().Format(time.RFC3339),
		OptionRunID:       c.runID(),
	}
	for k, v := range auto {
		if _, ok := opts[k]; !ok {
			opts[k] = v
		}
	}
	return opts
}
