package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/steleto"
)

// ConvertOptions holds the command-line settings of one conversion.
type ConvertOptions struct {
	Input       string
	Output      string
	Template    string
	Delimiter   string
	Format      string
	InputFormat string
	OptionsFile string
	Params      []string
	HasHeader   bool
	Strict      bool
	NoTrim      bool
	NoQuotes    bool
}

func NewConvertOptions() *ConvertOptions {
	return &ConvertOptions{
		Delimiter: `\t`,
		Format:    string(steleto.TemplateFormat),
	}
}

func (o *ConvertOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Input, "input", "i", o.Input, "name of input data `FILE`")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "name of output `FILE` (default: input name plus extension)")
	fs.StringVarP(&o.Template, "template", "t", o.Template, "name of template `FILE`")
	fs.StringVarP(&o.Delimiter, "delimiter", "d", o.Delimiter, "input field delimiter: one character, \\t, tab, comma, semicolon, pipe or space")
	fs.StringArrayVarP(&o.Params, "param", "p", o.Params, "named parameter passed to the template as `NAME:VALUE` (repeatable)")
	fs.BoolVarP(&o.HasHeader, "fields", "f", o.HasHeader, "first input row contains field names")
	fs.StringVar(&o.Format, "format", o.Format, "output format: "+formatNames())
	fs.StringVar(&o.InputFormat, "input-format", o.InputFormat, "delimited or json (default: json for .json input files)")
	fs.StringVar(&o.OptionsFile, "options-file", o.OptionsFile, "YAML `FILE` of template parameters; --param wins")
	fs.BoolVar(&o.Strict, "strict", o.Strict, "fail on the first malformed row")
	fs.BoolVar(&o.NoTrim, "no-trim", o.NoTrim, "keep spaces around unquoted fields")
	fs.BoolVar(&o.NoQuotes, "no-quotes", o.NoQuotes, "treat quote characters as ordinary data")
}

func formatNames() string {
	var names []string
	for _, f := range steleto.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(append(names, "go-template=TEXT"), ", ")
}

// ApplyFrom reads settings through v, which has the flags bound and so
// resolves flag, environment, config file and default in that order.
// Params are flag-only.
func (o *ConvertOptions) ApplyFrom(v *viper.Viper) {
	o.Input = v.GetString("input")
	o.Output = v.GetString("output")
	o.Template = v.GetString("template")
	o.Delimiter = v.GetString("delimiter")
	o.Format = v.GetString("format")
	o.InputFormat = v.GetString("input-format")
	o.OptionsFile = v.GetString("options-file")
	o.HasHeader = v.GetBool("fields")
	o.Strict = v.GetBool("strict")
	o.NoTrim = v.GetBool("no-trim")
	o.NoQuotes = v.GetBool("no-quotes")
}

// Validate reports every problem with the options at once.
func (o *ConvertOptions) Validate() []error {
	var errs []error
	if strings.TrimSpace(o.Input) == "" {
		errs = append(errs, &steleto.ConfigError{Field: "input", Message: "input file name required"})
	}
	format, err := steleto.ParseFormat(o.Format)
	if err != nil {
		errs = append(errs, err)
	} else if format == steleto.TemplateFormat && strings.TrimSpace(o.Template) == "" {
		errs = append(errs, &steleto.ConfigError{Field: "template", Message: "template file name required"})
	}
	if _, err := steleto.ParseDelimiter(o.Delimiter); err != nil {
		errs = append(errs, err)
	}
	switch steleto.InputFormat(o.InputFormat) {
	case "", steleto.Delimited, steleto.JSONInput:
	default:
		errs = append(errs, &steleto.ConfigError{Field: "input-format", Message: fmt.Sprintf("unknown input format %q", o.InputFormat)})
	}
	if _, err := parseParams(o.Params); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// Config reads the template and options files and returns the conversion
// settings. Call Validate first.
func (o *ConvertOptions) Config() (steleto.Config, error) {
	cfg := steleto.DefaultConfig()
	cfg.SourceName = strings.TrimSpace(o.Input)
	cfg.TemplateName = strings.TrimSpace(o.Template)
	cfg.HasHeader = o.HasHeader
	cfg.Strict = o.Strict
	cfg.TrimWhitespace = !o.NoTrim
	cfg.QuotesEnclose = !o.NoQuotes

	var err error
	if cfg.Format, err = steleto.ParseFormat(o.Format); err != nil {
		return cfg, err
	}
	if cfg.Delimiter, err = steleto.ParseDelimiter(o.Delimiter); err != nil {
		return cfg, err
	}
	cfg.Input = steleto.InputFormat(o.InputFormat)
	if cfg.Input == "" {
		cfg.Input = steleto.Delimited
		if strings.EqualFold(filepath.Ext(cfg.SourceName), ".json") {
			cfg.Input = steleto.JSONInput
		}
	}

	cfg.DestinationName = strings.TrimSpace(o.Output)
	if cfg.DestinationName == "" {
		cfg.DestinationName = cfg.SourceName + outputExt(cfg.Format)
	}

	if cfg.Format == steleto.TemplateFormat {
		b, err := os.ReadFile(cfg.TemplateName)
		if err != nil {
			return cfg, fmt.Errorf("read template: %w", err)
		}
		cfg.Template = string(b)
	}

	if cfg.Options, err = o.options(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func outputExt(f steleto.Format) string {
	switch {
	case f.IsTemplate():
		return ".txt"
	case f == steleto.Markdown:
		return ".md"
	default:
		return "." + f.String()
	}
}

// options merges the options file with --param values.
func (o *ConvertOptions) options() (map[string]string, error) {
	opts := map[string]string{}
	if o.OptionsFile != "" {
		b, err := os.ReadFile(o.OptionsFile)
		if err != nil {
			return nil, fmt.Errorf("read options file: %w", err)
		}
		if err := yaml.Unmarshal(b, &opts); err != nil {
			return nil, fmt.Errorf("parse options file %q: %w", o.OptionsFile, err)
		}
	}
	params, err := parseParams(o.Params)
	if err != nil {
		return nil, err
	}
	for k, v := range params {
		opts[k] = v
	}
	return opts, nil
}

// parseParams splits NAME:VALUE (or NAME=VALUE) pairs at the first separator.
func parseParams(params []string) (map[string]string, error) {
	out := make(map[string]string, len(params))
	for _, p := range params {
		i := strings.IndexAny(p, ":=")
		if i <= 0 {
			return nil, &steleto.ConfigError{Field: "param", Message: fmt.Sprintf("%q is not NAME:VALUE", p)}
		}
		out[p[:i]] = p[i+1:]
	}
	return out, nil
}
