package steleto

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Row is one logical row of raw, unprojected field values.
type Row []string

// TokenizerOptions configures a [Tokenizer].
type TokenizerOptions struct {
	// Delimiter separates fields. Default: tab.
	Delimiter rune
	// Quote encloses fields when QuotesEnclose is set. Default: '"'.
	Quote rune
	// QuotesEnclose makes a field starting with Quote a quoted field, in which
	// delimiters and line terminators are literal.
	QuotesEnclose bool
	// TrimWhitespace strips spaces around fields, outside any quotes.
	TrimWhitespace bool
	// OnMalformed receives each discarded row. Returning false stops the
	// sequence. A nil handler skips malformed rows silently.
	OnMalformed func(*MalformedRowError) bool
}

// DefaultTokenizerOptions returns tab-delimited options with quoting and
// trimming enabled.
func DefaultTokenizerOptions() TokenizerOptions {
	return TokenizerOptions{
		Delimiter:      '\t',
		Quote:          '"',
		QuotesEnclose:  true,
		TrimWhitespace: true,
	}
}

// Tokenizer splits delimited text into rows.
type Tokenizer struct {
	opts TokenizerOptions
}

// NewTokenizer validates opts and returns a Tokenizer.
func NewTokenizer(opts TokenizerOptions) (*Tokenizer, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}
	if !validSeparator(opts.Quote) {
		return nil, &ConfigError{Field: "quote", Message: fmt.Sprintf("%q cannot enclose fields", opts.Quote)}
	}
	if !validSeparator(opts.Delimiter) || opts.Delimiter == opts.Quote {
		return nil, &ConfigError{Field: "delimiter", Message: fmt.Sprintf("%q cannot separate fields", opts.Delimiter)}
	}
	return &Tokenizer{opts: opts}, nil
}

func validSeparator(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// ParseDelimiter converts a command-line delimiter into a rune. It accepts a
// single character, the escape `\t`, and the names tab, comma, semicolon,
// pipe and space.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	case "space":
		return ' ', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || !validSeparator(r) {
		return 0, &ConfigError{Field: "delimiter", Message: fmt.Sprintf("%q is not a single character", s)}
	}
	return r, nil
}

// Rows returns the rows of text in order. The sequence holds no state
// between iterations; stopping early releases everything.
//
// A row that reaches the end of text inside a quoted field is reported to
// OnMalformed and dropped, and scanning restarts on the line after the one
// the row began on.
func (t *Tokenizer) Rows(text string) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		pos, line := 0, 1
		for pos < len(text) {
			row, next, nextLine, malformed := t.scanRow(text, pos, line)
			if malformed != nil {
				if t.opts.OnMalformed != nil && !t.opts.OnMalformed(malformed) {
					return
				}
				pos, line = skipLine(text, pos), line+1
				continue
			}
			pos, line = next, nextLine
			if !yield(row) {
				return
			}
		}
	}
}

type scanState uint8

const (
	stateFieldStart scanState = iota
	stateUnquoted
	stateQuoted
	stateQuoteMaybeEnd
)

// parseState is the per-row scanner context.
type parseState struct {
	state    scanState
	line     int
	fields   Row
	field    strings.Builder
	quoted   bool
	closedAt int // field length when its closing quote was seen
	trim     bool
}

func (ps *parseState) endField() {
	value := ps.field.String()
	switch {
	case ps.quoted:
		if ps.state == stateQuoteMaybeEnd {
			ps.closedAt = len(value)
		}
		if ps.trim {
			value = value[:ps.closedAt] + strings.TrimRightFunc(value[ps.closedAt:], unicode.IsSpace)
		}
	case ps.trim:
		value = strings.TrimSpace(value)
	}
	ps.fields = append(ps.fields, value)
	ps.field.Reset()
	ps.quoted = false
	ps.closedAt = 0
	ps.state = stateFieldStart
}

// scanRow reads one row starting at byte offset start, which is on the given
// line. It returns the row, the offset and line of the following row, or the
// malformed-row diagnostic.
func (t *Tokenizer) scanRow(text string, start, line int) (Row, int, int, *MalformedRowError) {
	delim, quote := t.opts.Delimiter, t.opts.Quote
	ps := parseState{line: line, trim: t.opts.TrimWhitespace}

	for i := start; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		raw := text[i : i+size]
		i += size

		if ps.state == stateQuoteMaybeEnd && r != quote {
			ps.closedAt = ps.field.Len()
		}

		switch ps.state {
		case stateFieldStart:
			switch {
			case r == delim:
				ps.endField()
			case r == '\n' || r == '\r':
				ps.endField()
				return ps.fields, skipLF(text, i, r), ps.line + 1, nil
			case r == quote && t.opts.QuotesEnclose:
				// Spaces before an opening quote are padding.
				ps.field.Reset()
				ps.quoted = true
				ps.state = stateQuoted
			case isBlank(r):
				ps.field.WriteString(raw)
			default:
				ps.field.WriteString(raw)
				ps.state = stateUnquoted
			}

		case stateUnquoted, stateQuoteMaybeEnd:
			switch {
			case r == quote && ps.state == stateQuoteMaybeEnd:
				ps.field.WriteString(raw)
				ps.state = stateQuoted
			case r == delim:
				ps.endField()
			case r == '\n' || r == '\r':
				ps.endField()
				return ps.fields, skipLF(text, i, r), ps.line + 1, nil
			default:
				ps.field.WriteString(raw)
				ps.state = stateUnquoted
			}

		case stateQuoted:
			if r == quote {
				ps.state = stateQuoteMaybeEnd
				continue
			}
			if r == '\n' || (r == '\r' && !strings.HasPrefix(text[i:], "\n")) {
				ps.line++
			}
			ps.field.WriteString(raw)
		}
	}

	if ps.state == stateQuoted {
		end := strings.IndexAny(text[start:], "\r\n")
		if end < 0 {
			end = len(text) - start
		}
		return nil, 0, 0, &MalformedRowError{Line: line, Text: text[start : start+end], Err: ErrUnterminatedQuote}
	}
	ps.endField()
	return ps.fields, len(text), ps.line + 1, nil
}

func isBlank(r rune) bool {
	return r != '\n' && r != '\r' && unicode.IsSpace(r)
}

// skipLF consumes the LF of a CRLF pair.
func skipLF(text string, i int, r rune) int {
	if r == '\r' && i < len(text) && text[i] == '\n' {
		return i + 1
	}
	return i
}

// skipLine returns the offset just past the line terminator that follows start.
func skipLine(text string, start int) int {
	end := strings.IndexAny(text[start:], "\r\n")
	if end < 0 {
		return len(text)
	}
	i := start + end
	return skipLF(text, i+1, rune(text[i]))
}
