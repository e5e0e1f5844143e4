package cosmolog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fastjson"
)

// DecodeError reports a line that could not be decoded into an Event. It is
// always recoverable: callers skip the line and keep consuming the stream.
type DecodeError struct {
	Line   string
	Reason string
}

func (e *DecodeError) Error() string { return e.Reason }

// EncodeError reports a record that cannot be represented on the wire, such
// as a payload holding a non-scalar value.
type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string { return e.Reason }

// Encode serializes an event as one compact JSON object with a fixed field
// order. It emits exactly one object per call with no trailing newline;
// EncodeLine adds the newline framing other tools rely on. Scalar payload
// values keep their native JSON types.
func Encode(e *Event) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, `{"version":`...)
	buf = strconv.AppendInt(buf, int64(e.Version), 10)
	buf = append(buf, `,"stream_name":`...)
	buf = appendJSONString(buf, e.StreamName)
	buf = append(buf, `,"origin":`...)
	buf = appendJSONString(buf, e.Origin)
	buf = append(buf, `,"timestamp":"`...)
	buf = e.Timestamp.UTC().AppendFormat(buf, TimestampLayout)
	buf = append(buf, '"')
	if e.Format != "" {
		buf = append(buf, `,"format":`...)
		buf = appendJSONString(buf, e.Format)
	}
	buf = append(buf, `,"level":`...)
	buf = strconv.AppendInt(buf, int64(e.Level), 10)
	buf = append(buf, `,"payload":`...)
	payload, err := e.Payload.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf = append(buf, payload...)
	return append(buf, '}'), nil
}

// EncodeLine is Encode plus the terminating newline: one complete event per
// output line.
func EncodeLine(e *Event) ([]byte, error) {
	buf, err := Encode(e)
	if err != nil {
		return nil, err
	}
	return append(buf, '\n'), nil
}

func appendJSONString(dst []byte, s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		// a Go string always has a JSON encoding
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, b...)
}

var decodeParsers fastjson.ParserPool

// Decode parses one line of text as a canonical JSON event. Failures are
// *DecodeError values: the line is not valid JSON, is not an object, or a
// required field (stream_name, origin, timestamp, level) is missing or has
// the wrong primitive type. Absent format and payload default to empty so
// log-only events still decode. Unknown top-level fields are ignored for
// forward compatibility. Payload key order follows the document.
func Decode(line []byte) (*Event, error) {
	p := decodeParsers.Get()
	defer decodeParsers.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return nil, &DecodeError{Line: string(line), Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if v.Type() != fastjson.TypeObject {
		return nil, &DecodeError{Line: string(line), Reason: "event must be a JSON object"}
	}

	fail := func(format string, args ...any) (*Event, error) {
		return nil, &DecodeError{Line: string(line), Reason: fmt.Sprintf(format, args...)}
	}

	stream, ok := stringField(v, "stream_name")
	if !ok || stream == "" {
		return fail("missing or invalid stream_name")
	}
	origin, ok := stringField(v, "origin")
	if !ok || origin == "" {
		return fail("missing or invalid origin")
	}
	tsRaw, ok := stringField(v, "timestamp")
	if !ok {
		return fail("missing or invalid timestamp")
	}
	ts, err := parseTimestamp(tsRaw)
	if err != nil {
		return fail("unparseable timestamp %q", tsRaw)
	}

	levelVal := v.Get("level")
	if levelVal == nil || levelVal.Type() != fastjson.TypeNumber {
		return fail("missing or non-numeric level")
	}
	code, err := levelVal.Int64()
	if err != nil {
		return fail("level must be an integer")
	}

	version := SchemaVersion
	if vv := v.Get("version"); vv != nil && vv.Type() == fastjson.TypeNumber {
		if n, err := vv.Int64(); err == nil {
			version = int(n)
		}
	}

	format := ""
	if fv := v.Get("format"); fv != nil && fv.Type() != fastjson.TypeNull {
		fb, err := fv.StringBytes()
		if err != nil {
			return fail("format must be a string")
		}
		format = string(fb)
	}

	payload := NewPayload()
	if pv := v.Get("payload"); pv != nil && pv.Type() != fastjson.TypeNull {
		obj, err := pv.Object()
		if err != nil {
			return fail("payload must be an object")
		}
		var bad string
		obj.Visit(func(key []byte, item *fastjson.Value) {
			if bad != "" {
				return
			}
			val, err := decodeValue(item)
			if err != nil {
				bad = string(key)
				return
			}
			payload.Set(string(key), val)
		})
		if bad != "" {
			return fail("payload value for %q is not a scalar", bad)
		}
	}

	return &Event{
		Version:    version,
		StreamName: stream,
		Origin:     origin,
		Timestamp:  ts,
		Format:     format,
		Level:      Level(code),
		Payload:    payload,
	}, nil
}

// DecodeString is Decode for a string input.
func DecodeString(line string) (*Event, error) {
	return Decode([]byte(line))
}

func stringField(v *fastjson.Value, key string) (string, bool) {
	f := v.Get(key)
	if f == nil {
		return "", false
	}
	b, err := f.StringBytes()
	if err != nil {
		return "", false
	}
	return string(b), true
}

func decodeValue(item *fastjson.Value) (Value, error) {
	switch item.Type() {
	case fastjson.TypeString:
		b, err := item.StringBytes()
		if err != nil {
			return Value{}, err
		}
		return String(string(b)), nil
	case fastjson.TypeNumber:
		// integers stay integers: only a fractional or exponent marker in
		// the document makes a float
		raw := item.MarshalTo(nil)
		if !strings.ContainsAny(string(raw), ".eE") {
			if n, err := item.Int64(); err == nil {
				return Int(n), nil
			}
		}
		f, err := item.Float64()
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case fastjson.TypeTrue:
		return Bool(true), nil
	case fastjson.TypeFalse:
		return Bool(false), nil
	case fastjson.TypeNull:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("non-scalar value")
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
