// Package cosmolog implements the cosmolog structured log event schema:
// encoding application log records into canonical newline-delimited JSON
// events, and rendering such events into human-readable lines.
package cosmolog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SchemaVersion is the wire schema tag carried in every event.
const SchemaVersion = 0

// TimestampLayout is the canonical wire form of an event timestamp: UTC,
// microsecond precision, literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Event is one structured log record. An event is constructed once at
// emission time and is immutable thereafter; AttachException operates on a
// copy, never on the original.
type Event struct {
	Version    int
	StreamName string
	Origin     string
	Timestamp  time.Time
	Format     string
	Level      Level
	Payload    *Payload
}

// ValidationError reports a producer-side field that violates the schema
// rules.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	originLabelPattern = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_-]{0,61}[A-Za-z0-9_])?$`)
	streamNamePattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	payloadKeyPattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

func validateOrigin(origin string) error {
	if origin == "" {
		return &ValidationError{Field: "origin", Reason: "must not be empty"}
	}
	if len(origin) > 255 {
		return &ValidationError{Field: "origin", Reason: "length cannot exceed 255 characters"}
	}
	for _, label := range strings.Split(origin, ".") {
		if !originLabelPattern.MatchString(label) {
			return &ValidationError{
				Field:  "origin",
				Reason: fmt.Sprintf("%q is not a fully qualified domain name", origin),
			}
		}
	}
	return nil
}

func validateStreamName(name string) error {
	if !streamNamePattern.MatchString(name) {
		return &ValidationError{
			Field:  "stream_name",
			Reason: fmt.Sprintf("%q may contain only alphanumerics, '_', '-' and '.'", name),
		}
	}
	return nil
}

func validatePayloadKeys(p *Payload) error {
	var bad string
	p.Visit(func(k string, _ Value) {
		if bad == "" && !payloadKeyPattern.MatchString(k) {
			bad = k
		}
	})
	if bad != "" {
		return &ValidationError{
			Field:  "payload",
			Reason: fmt.Sprintf("key %q may contain only alphanumerics, '_', '-' and '.'", bad),
		}
	}
	return nil
}

// NewEvent builds a validated event. The timestamp is converted to UTC and
// truncated to microseconds, the precision the wire format carries, so an
// encode/decode round trip compares equal. A nil payload becomes empty.
func NewEvent(streamName, origin string, ts time.Time, level Level, format string, payload *Payload) (*Event, error) {
	if err := validateStreamName(streamName); err != nil {
		return nil, err
	}
	if err := validateOrigin(origin); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = NewPayload()
	}
	if err := validatePayloadKeys(payload); err != nil {
		return nil, err
	}
	return &Event{
		Version:    SchemaVersion,
		StreamName: streamName,
		Origin:     origin,
		Timestamp:  ts.UTC().Truncate(time.Microsecond),
		Format:     format,
		Level:      level,
		Payload:    payload,
	}, nil
}

// Equal reports whether two events carry the same record.
func (e *Event) Equal(o *Event) bool {
	return e.Version == o.Version &&
		e.StreamName == o.StreamName &&
		e.Origin == o.Origin &&
		e.Timestamp.Equal(o.Timestamp) &&
		e.Format == o.Format &&
		e.Level == o.Level &&
		e.Payload.Equal(o.Payload)
}

func (e *Event) clone() *Event {
	out := *e
	out.Payload = e.Payload.Clone()
	return &out
}
