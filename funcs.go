package steleto

import (
	"encoding/xml"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	lru "github.com/hashicorp/golang-lru"
)

// FuncMap is the table of helper functions available to templates. It is
// handed to [ParseTemplate] explicitly; there is no global registration.
type FuncMap map[string]any

const patternCacheSize = 128

// DefaultFuncs returns a new table of the string helpers. In a pipeline the
// piped value is the last argument:
//
//	{{.data.title | regexreplace "\\s+" " "}}
//	{{if isregexmatch "^[0-9]+$" .data.id}}...{{end}}
//	{{.data.date | to_iso_8601}}
//
// Each table caches its compiled patterns.
func DefaultFuncs() FuncMap {
	p := newPatterns()
	return FuncMap{
		"regexreplace":         p.replace,
		"isregexmatch":         p.match,
		"to_iso_8601":          toISO8601,
		"htmldecode":           html.UnescapeString,
		"escape_backslash":     escapeBackslash,
		"escape_single_quotes": escapeSingleQuotes,
		"escape_double_quotes": escapeDoubleQuotes,
		"isinteger":            isInteger,
		"containsinteger":      containsInteger,
		"xmlescape":            xmlEscape,
		"urlencode":            url.QueryEscape,
	}
}

type patterns struct {
	cache *lru.Cache
}

func newPatterns() *patterns {
	// lru.New only fails for a non-positive size.
	c, _ := lru.New(patternCacheSize)
	return &patterns{cache: c}
}

func (p *patterns) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := p.cache.Get(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	p.cache.Add(pattern, re)
	return re, nil
}

func (p *patterns) replace(pattern, replacement, s string) (string, error) {
	re, err := p.compile(pattern)
	if err != nil {
		return "", err
	}
	return re.ReplaceAllString(s, replacement), nil
}

func (p *patterns) match(pattern, s string) (bool, error) {
	re, err := p.compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// toISO8601 renders a date in any common layout as xsd:dateTime. Values that
// do not parse are returned unchanged.
func toISO8601(s string) string {
	t, err := dateparse.ParseAny(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

func escapeBackslash(s string) string {
	return strings.ReplaceAll(s, `\`, `\\`)
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}

func escapeDoubleQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func containsInteger(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func xmlEscape(s string) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
