package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/steleto"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseParams(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		params  []string
		want    map[string]string
		wantErr require.ErrorAssertionFunc
	}{
		"colon":        {params: []string{"lang:en"}, want: map[string]string{"lang": "en"}, wantErr: require.NoError},
		"equals":       {params: []string{"lang=en"}, want: map[string]string{"lang": "en"}, wantErr: require.NoError},
		"first sep":    {params: []string{"url:http://x"}, want: map[string]string{"url": "http://x"}, wantErr: require.NoError},
		"empty value":  {params: []string{"k:"}, want: map[string]string{"k": ""}, wantErr: require.NoError},
		"last wins":    {params: []string{"k:1", "k:2"}, want: map[string]string{"k": "2"}, wantErr: require.NoError},
		"none":         {params: nil, want: map[string]string{}, wantErr: require.NoError},
		"no separator": {params: []string{"lang"}, wantErr: require.Error},
		"no name":      {params: []string{":en"}, wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := parseParams(tt.params)
			tt.wantErr(t, err)
			if err != nil {
				assert.ErrorIs(t, err, steleto.ErrConfiguration)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		modify   func(*ConvertOptions)
		wantErrs int
	}{
		"valid": {
			modify:   func(o *ConvertOptions) {},
			wantErrs: 0,
		},
		"missing input and template": {
			modify:   func(o *ConvertOptions) { o.Input, o.Template = "", "" },
			wantErrs: 2,
		},
		"export format needs no template": {
			modify:   func(o *ConvertOptions) { o.Template, o.Format = "", "csv" },
			wantErrs: 0,
		},
		"inline template needs no file": {
			modify:   func(o *ConvertOptions) { o.Template, o.Format = "", "go-template={{.data}}" },
			wantErrs: 0,
		},
		"unknown format": {
			modify:   func(o *ConvertOptions) { o.Format = "table" },
			wantErrs: 1,
		},
		"bad delimiter": {
			modify:   func(o *ConvertOptions) { o.Delimiter = "ab" },
			wantErrs: 1,
		},
		"bad input format": {
			modify:   func(o *ConvertOptions) { o.InputFormat = "xlsx" },
			wantErrs: 1,
		},
		"bad param": {
			modify:   func(o *ConvertOptions) { o.Params = []string{"oops"} },
			wantErrs: 1,
		},
		"everything wrong": {
			modify: func(o *ConvertOptions) {
				o.Input, o.Format, o.Delimiter, o.InputFormat, o.Params = " ", "nope", "", "x", []string{"="}
			},
			wantErrs: 5,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			o := NewConvertOptions()
			o.Input, o.Template = "in.tsv", "t.tmpl"
			tt.modify(o)
			assert.Len(t, o.Validate(), tt.wantErrs)
		})
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tmpl := writeTemp(t, dir, "people.tmpl", `{{define "RECORD"}}{{.data.name}}{{end}}`)
	opts := writeTemp(t, dir, "opts.yaml", "lang: en\nregion: eu\n")

	o := NewConvertOptions()
	o.Input = " data.tsv "
	o.Template = tmpl
	o.Delimiter = "comma"
	o.HasHeader = true
	o.Strict = true
	o.NoTrim = true
	o.OptionsFile = opts
	o.Params = []string{"region:us", "mode=fast"}

	cfg, err := o.Config()
	require.NoError(t, err)

	assert.Equal(t, "data.tsv", cfg.SourceName)
	assert.Equal(t, "data.tsv.txt", cfg.DestinationName)
	assert.Equal(t, tmpl, cfg.TemplateName)
	assert.Equal(t, `{{define "RECORD"}}{{.data.name}}{{end}}`, cfg.Template)
	assert.Equal(t, steleto.TemplateFormat, cfg.Format)
	assert.Equal(t, steleto.Delimited, cfg.Input)
	assert.Equal(t, ',', cfg.Delimiter)
	assert.True(t, cfg.HasHeader)
	assert.True(t, cfg.Strict)
	assert.False(t, cfg.TrimWhitespace)
	assert.True(t, cfg.QuotesEnclose)
	assert.Equal(t, map[string]string{"lang": "en", "region": "us", "mode": "fast"}, cfg.Options)
}

func TestConfigDestination(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		format string
		output string
		want   string
	}{
		"markdown":    {format: "markdown", want: "in.tsv.md"},
		"json":        {format: "json", want: "in.tsv.json"},
		"xml":         {format: "xml", want: "in.tsv.xml"},
		"go-template": {format: "go-template=x", want: "in.tsv.txt"},
		"explicit":    {format: "csv", output: "out.csv", want: "out.csv"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			o := NewConvertOptions()
			o.Input = "in.tsv"
			o.Format = tt.format
			o.Output = tt.output
			cfg, err := o.Config()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.DestinationName)
			assert.Empty(t, cfg.Template, "export formats do not read a template file")
		})
	}
}

func TestConfigInputFormat(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input       string
		inputFormat string
		want        steleto.InputFormat
	}{
		"detect json":     {input: "people.JSON", want: steleto.JSONInput},
		"detect tsv":      {input: "people.tsv", want: steleto.Delimited},
		"explicit":        {input: "people.json", inputFormat: "delimited", want: steleto.Delimited},
		"explicit json":   {input: "people.txt", inputFormat: "json", want: steleto.JSONInput},
		"no extension":    {input: "people", want: steleto.Delimited},
		"json in dirname": {input: "x.json/people.tsv", want: steleto.Delimited},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			o := NewConvertOptions()
			o.Input = tt.input
			o.InputFormat = tt.inputFormat
			o.Format = "csv"
			cfg, err := o.Config()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Input)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	badYAML := writeTemp(t, dir, "bad.yaml", "- not\n- a map\n")
	tmpl := writeTemp(t, dir, "t.tmpl", "x")

	tests := map[string]struct {
		modify  func(*ConvertOptions)
		wantErr string
	}{
		"missing template file": {
			modify:  func(o *ConvertOptions) { o.Template = filepath.Join(dir, "absent.tmpl") },
			wantErr: "read template",
		},
		"missing options file": {
			modify:  func(o *ConvertOptions) { o.OptionsFile = filepath.Join(dir, "absent.yaml") },
			wantErr: "read options file",
		},
		"options file not a map": {
			modify:  func(o *ConvertOptions) { o.OptionsFile = badYAML },
			wantErr: "parse options file",
		},
		"bad format": {
			modify:  func(o *ConvertOptions) { o.Format = "table" },
			wantErr: "unsupported format",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			o := NewConvertOptions()
			o.Input = "in.tsv"
			o.Template = tmpl
			tt.modify(o)
			_, err := o.Config()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "00:00:00.000", formatElapsed(0))
	assert.Equal(t, "00:00:01.250", formatElapsed(1250*time.Millisecond))
	assert.Equal(t, "01:02:03.004", formatElapsed(time.Hour+2*time.Minute+3*time.Second+4*time.Millisecond))
}
