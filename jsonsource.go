package steleto

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONSource reads records from a JSON array of objects, or from a single
// object. Check Err after iterating.
type JSONSource struct {
	text   string
	header Header
	seen   map[string]bool
	err    error
}

// DecodeJSON returns a source over text. Nothing is decoded until Records is
// iterated.
func DecodeJSON(text string) *JSONSource {
	return &JSONSource{text: text, seen: map[string]bool{}}
}

// Header returns object keys in the order they were first seen.
func (s *JSONSource) Header() Header { return s.header }

// Err returns the decoding error that stopped iteration, if any.
func (s *JSONSource) Err() error { return s.err }

// Records decodes one record per object. Strings are kept as-is, numbers in
// their literal form, booleans as true/false, and nested values as their
// raw JSON text. Nulls and empty values are dropped. Anything but whitespace
// after the top-level value is an error.
func (s *JSONSource) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if strings.TrimSpace(s.text) == "" {
			return
		}
		it := jsoniter.ParseString(jsonAPI, s.text)
		stopped := false
		switch it.WhatIsNext() {
		case jsoniter.ArrayValue:
			n := 0
			it.ReadArrayCB(func(it *jsoniter.Iterator) bool {
				n++
				if it.WhatIsNext() != jsoniter.ObjectValue {
					s.err = fmt.Errorf("json element %d: expected object", n)
					return false
				}
				rec := s.readObject(it)
				if it.Error != nil {
					return false
				}
				stopped = !yield(rec)
				return !stopped
			})
		case jsoniter.ObjectValue:
			rec := s.readObject(it)
			if it.Error == nil {
				stopped = !yield(rec)
			}
		default:
			s.err = errors.New("json input must be an object or an array of objects")
		}
		if s.err == nil && it.Error != nil && !errors.Is(it.Error, io.EOF) {
			s.err = fmt.Errorf("decode json: %w", it.Error)
		}
		if s.err == nil && !stopped && !atEOF(it) {
			s.err = errors.New("decode json: unexpected data after top-level value")
		}
	}
}

// atEOF reports whether only whitespace is left after the top-level value.
func atEOF(it *jsoniter.Iterator) bool {
	return it.WhatIsNext() == jsoniter.InvalidValue && errors.Is(it.Error, io.EOF)
}

func (s *JSONSource) readObject(it *jsoniter.Iterator) Record {
	rec := Record{}
	it.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		if !s.seen[key] {
			s.seen[key] = true
			s.header = append(s.header, key)
		}
		var v string
		switch it.WhatIsNext() {
		case jsoniter.StringValue:
			v = it.ReadString()
		case jsoniter.NumberValue:
			v = it.ReadNumber().String()
		case jsoniter.BoolValue:
			v = strconv.FormatBool(it.ReadBool())
		case jsoniter.NilValue:
			it.ReadNil()
		default:
			v = string(it.SkipAndReturnBytes())
		}
		if strings.TrimSpace(v) != "" {
			rec[key] = v
		}
		return it.Error == nil
	})
	return rec
}
