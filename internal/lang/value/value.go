// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package value implements the JSON value abstraction jsonmap programs read
// from and produce: the six JSON kinds, with key-order-preserving objects.
//
// Object literals keep an ordered sequence of (key, value) pairs rather
// than a hash map, so output key order always matches declaration order.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which of the six JSON kinds a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged JSON value.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []Value
	obj  *Object
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean as a Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64 as a Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string as a Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List wraps an ordered slice of Values as a list Value.
func List(items []Value) Value { return Value{kind: KindList, list: items} }

// FromObject wraps an already-built Object as a Value.
func FromObject(o *Object) Value { return Value{kind: KindObject, obj: o} }

// Kind reports which JSON kind this Value holds.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload and whether v is a boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) { return v.n, v.kind == KindNumber }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// List returns the list payload and whether v is a list.
func (v Value) List() ([]Value, bool) { return v.list, v.kind == KindList }

// Object returns the object payload and whether v is an object.
func (v Value) Object() (*Object, bool) { return v.obj, v.kind == KindObject }

// Equal reports whether two values are structurally identical. Used only by
// tests; the language itself has no equality operator (Non-goal: no
// arithmetic or boolean operators).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.equal(other.obj)
	default:
		return false
	}
}

// Member is a single (key, value) pair of an ordered object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered mapping from string keys to Values: a slice of
// members, not a Go map, so iteration order equals insertion order.
type Object struct {
	members []Member
	index   map[string]int
}

// DuplicateKeyError reports that a would-be object has the same key twice.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Key)
}

// NewObject builds an Object from an ordered member list, rejecting
// duplicate keys: two members sharing a key is always an error, whether
// caught during parsing or during evaluation.
func NewObject(members []Member) (*Object, error) {
	index := make(map[string]int, len(members))
	for i, m := range members {
		if _, exists := index[m.Key]; exists {
			return nil, &DuplicateKeyError{Key: m.Key}
		}
		index[m.Key] = i
	}
	return &Object{members: members, index: index}, nil
}

// EmptyObject returns a valid, empty Object.
func EmptyObject() *Object {
	o, _ := NewObject(nil)
	return o
}

// Get looks up a key, reporting whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.members[i].Value, true
}

// Members returns the object's (key, value) pairs in declaration order.
// Callers must not mutate the returned slice.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

func (o *Object) equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for _, m := range o.Members() {
		ov, ok := other.Get(m.Key)
		if !ok || !m.Value.Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the value as JSON text, preserving object member
// order exactly.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
		return nil
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case KindNumber:
		buf.WriteString(formatNumber(v.n))
		return nil
	case KindString:
		return encodeJSONString(buf, v.s)
	case KindList:
		buf.WriteByte('[')
		for i, elem := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := elem.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.obj.Members() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		return fmt.Errorf("value: unknown kind %v", v.kind)
	}
}

func encodeJSONString(buf *bytes.Buffer, s string) error {
	// encoding/json already produces a correctly escaped, quoted JSON
	// string for a Go string; reuse it rather than hand-rolling escaping.
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) && !isNegZero(n) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func isNegZero(n float64) bool {
	return n == 0 && 1/n < 0
}

// Decode parses JSON text into a Value tree, preserving input object key
// order (the evaluator never depends on this, but it keeps round-tripping
// predictable for tests and the "jsonmap check"/"translate" CLI).
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("value: unexpected trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("value: invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Value
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, elem)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return Value{}, err
			}
			return List(items), nil
		case '{':
			var members []Member
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("value: expected object key, found %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				members = append(members, Member{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return Value{}, err
			}
			obj, err := NewObject(members)
			if err != nil {
				return Value{}, fmt.Errorf("value: %w", err)
			}
			return FromObject(obj), nil
		default:
			return Value{}, fmt.Errorf("value: unexpected delimiter %v", t)
		}
	default:
		return Value{}, fmt.Errorf("value: unexpected token %v (%T)", tok, tok)
	}
}
