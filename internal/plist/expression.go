// Package plist reads the watchdog's configuration documents: a
// single s-expression, read as a flat list whose items alternate
// between colon-prefixed keyword indicators and their values. No
// library in the retrieved example pack parses Lisp-style property
// lists, so this reader is hand-rolled against the stdlib, matching
// the grammar of the original implementation's plist/expression/
// keyword modules.
package plist

import (
	"strconv"
	"strings"

	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/keyword"
)

// Kind identifies the shape of a parsed Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindKeyword
	KindList
)

// Value is a single parsed s-expression: an atom (int, float,
// string, or keyword) or a list of Values.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	kw   keyword.Keyword
	list []Value
}

func IntValue(i int64) Value          { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value      { return Value{kind: KindFloat, f: f} }
func StringValue(s string) Value      { return Value{kind: KindString, s: s} }
func KeywordValue(k keyword.Keyword) Value { return Value{kind: KindKeyword, kw: k} }
func ListValue(items []Value) Value   { return Value{kind: KindList, list: items} }

func (v Value) Kind() Kind { return v.kind }

// Integer returns the value's integer, or a TypeMismatch fault if
// the value is not an integer.
func (v Value) Integer() (int64, error) {
	if v.kind != KindInt {
		return 0, faults.New(faults.TypeMismatch, "integer")
	}
	return v.i, nil
}

// Float returns the value's float, or a TypeMismatch fault if the
// value is not a float.
func (v Value) Float() (float64, error) {
	if v.kind != KindFloat {
		return 0, faults.New(faults.TypeMismatch, "float")
	}
	return v.f, nil
}

// String returns the value's string content, or a TypeMismatch
// fault if the value is not a string.
func (v Value) String() (string, error) {
	if v.kind != KindString {
		return "", faults.New(faults.TypeMismatch, "string")
	}
	return v.s, nil
}

// Keyword returns the value's keyword, or a TypeMismatch fault if
// the value is not a keyword.
func (v Value) Keyword() (keyword.Keyword, error) {
	if v.kind != KindKeyword {
		return keyword.Keyword{}, faults.New(faults.TypeMismatch, "keyword")
	}
	return v.kw, nil
}

// List returns the value's elements, or a TypeMismatch fault if the
// value is not a list.
func (v Value) List() ([]Value, error) {
	if v.kind != KindList {
		return nil, faults.New(faults.TypeMismatch, "list")
	}
	return v.list, nil
}

// StringList returns the value's elements as strings, or a
// TypeMismatch fault if the value is not a list of strings.
func (v Value) StringList() ([]string, error) {
	items, err := v.List()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, err := item.String()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// atomFromToken converts a bare or quoted token into a Value,
// mirroring the original reader's atom-to-expression conversion: a
// quoted token is always a string; a bare token is an integer if it
// parses as one, a float if it parses as one, a keyword if it
// starts with ':', and otherwise a plain string kept exactly as
// written.
func atomFromToken(tok token, quoted bool) Value {
	if quoted {
		return StringValue(tok.text)
	}
	if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(tok.text, 64); err == nil {
		return FloatValue(f)
	}
	if rest, ok := strings.CutPrefix(tok.text, ":"); ok {
		return KeywordValue(keyword.New(rest))
	}
	return StringValue(tok.text)
}
