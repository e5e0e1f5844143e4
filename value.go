package cosmolog

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind discriminates the scalar variants a payload value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Value is one scalar payload value: a string, number, boolean or null.
// The zero Value is null. Nested mappings and sequences are not
// representable, which enforces the flat-payload invariant at the type
// level.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewValue converts a Go scalar into a Value. Maps, slices and every other
// non-scalar type are rejected with an EncodeError: payloads are flat, and
// this package does not coerce silently. Callers that want stringification
// apply fmt.Sprint themselves (the slog adapter does exactly that).
func NewValue(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		if x > 1<<63-1 {
			return Float(float64(x)), nil
		}
		return Int(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	}
	return Value{}, &EncodeError{
		Reason: fmt.Sprintf("payload value %v (%T) is not a scalar", v, v),
	}
}

// Kind returns the variant tag of the value.
func (v Value) Kind() Kind { return v.kind }

// Text returns the rendering form of the value: integers without a
// fractional part, floats in their shortest round-trip form, booleans as
// true/false, and null as the literal "null" (matching its JSON spelling).
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return "null"
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool { return v == o }

// appendJSON appends the native JSON encoding of the value. Floats keep a
// fractional marker so their kind survives a decode round trip.
func (v Value) appendJSON(dst []byte) ([]byte, error) {
	switch v.kind {
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return nil, &EncodeError{Reason: err.Error()}
		}
		return append(dst, b...), nil
	case KindInt:
		return strconv.AppendInt(dst, v.i, 10), nil
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if strings.ContainsAny(s, "NI") {
			return nil, &EncodeError{
				Reason: fmt.Sprintf("payload value %s has no JSON representation", s),
			}
		}
		dst = append(dst, s...)
		if !strings.ContainsAny(s, ".eE") {
			dst = append(dst, ".0"...)
		}
		return dst, nil
	case KindBool:
		return strconv.AppendBool(dst, v.b), nil
	}
	return append(dst, "null"...), nil
}

// Payload is a flat mapping of keys to scalar values. Key order is insertion
// order and is preserved through encoding, so rendered fallbacks and raw
// JSON stay readable. The zero Payload is empty and usable.
type Payload struct {
	keys   []string
	values map[string]Value
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{values: make(map[string]Value)}
}

// Set stores a value under key and returns the payload for chaining.
// Re-setting an existing key keeps its original position.
func (p *Payload) Set(key string, v Value) *Payload {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
	return p
}

// SetAny converts a Go scalar with NewValue and stores it. Non-scalar
// values are rejected with an EncodeError.
func (p *Payload) SetAny(key string, v any) error {
	val, err := NewValue(v)
	if err != nil {
		return err
	}
	p.Set(key, val)
	return nil
}

// Get looks up a value by exact, case-sensitive key. A nil payload is empty.
func (p *Payload) Get(key string) (Value, bool) {
	if p == nil || p.values == nil {
		return Value{}, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Len returns the number of keys.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Payload) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Visit calls fn for every key/value pair in insertion order.
func (p *Payload) Visit(fn func(key string, v Value)) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		fn(k, p.values[k])
	}
}

// Clone returns an independent copy of the payload.
func (p *Payload) Clone() *Payload {
	out := NewPayload()
	p.Visit(func(k string, v Value) {
		out.Set(k, v)
	})
	return out
}

// Equal reports whether two payloads hold the same key/value pairs. Key
// order does not affect equality.
func (p *Payload) Equal(o *Payload) bool {
	if p.Len() != o.Len() {
		return false
	}
	equal := true
	p.Visit(func(k string, v Value) {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			equal = false
		}
	})
	return equal
}

// MarshalJSON encodes the payload as a JSON object in insertion order with
// native scalar types.
func (p *Payload) MarshalJSON() ([]byte, error) {
	dst := []byte{'{'}
	if p != nil {
		for i, k := range p.keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, &EncodeError{Reason: err.Error()}
			}
			dst = append(dst, kb...)
			dst = append(dst, ':')
			dst, err = p.values[k].appendJSON(dst)
			if err != nil {
				return nil, err
			}
		}
	}
	return append(dst, '}'), nil
}
