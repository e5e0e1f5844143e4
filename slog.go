package cosmolog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
)

// SlogHandler adapts slog call sites to the cosmolog wire format: the record
// message becomes the event format (plain text, no placeholders) and the
// attributes become the payload, in order. Writes are synchronous, one JSON
// line per record.
type SlogHandler struct {
	cfg    *Config
	stream string
	attrs  []slog.Attr
	groups []string

	mu *sync.Mutex
	w  io.Writer
}

// NewSlogHandler creates a slog.Handler emitting cosmolog events for the
// given stream.
func NewSlogHandler(cfg *Config, streamName string, w io.Writer) *SlogHandler {
	return &SlogHandler{cfg: cfg, stream: streamName, mu: &sync.Mutex{}, w: w}
}

func slogLevel(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.cfg.Level.Enables(slogLevel(level))
}

func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	payload := NewPayload()
	for _, a := range h.attrs {
		setAttr(payload, a.Key, a.Value)
	}
	prefix := h.prefix()
	r.Attrs(func(a slog.Attr) bool {
		setAttr(payload, prefix+a.Key, a.Value)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	e, err := NewEvent(h.stream, h.cfg.Origin, ts, slogLevel(r.Level), r.Message, payload)
	if err != nil {
		return err
	}
	line, err := EncodeLine(e)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(line)
	return err
}

// WithAttrs qualifies the new attribute keys with the group open at call
// time, matching slog grouping semantics.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	prefix := h.prefix()
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)
	for _, a := range attrs {
		qualified = append(qualified, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	h2.attrs = qualified
	return &h2
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

func (h *SlogHandler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func setAttr(p *Payload, key string, v slog.Value) {
	v = v.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			setAttr(p, key+"."+ga.Key, ga.Value)
		}
		return
	}
	key = sanitizeKey(key)
	switch v.Kind() {
	case slog.KindString:
		p.Set(key, String(v.String()))
	case slog.KindInt64:
		p.Set(key, Int(v.Int64()))
	case slog.KindUint64:
		if u := v.Uint64(); u <= math.MaxInt64 {
			p.Set(key, Int(int64(u)))
		} else {
			p.Set(key, Float(float64(u)))
		}
	case slog.KindFloat64:
		p.Set(key, Float(v.Float64()))
	case slog.KindBool:
		p.Set(key, Bool(v.Bool()))
	case slog.KindTime:
		p.Set(key, String(v.Time().UTC().Format(time.RFC3339Nano)))
	case slog.KindDuration:
		p.Set(key, String(v.Duration().String()))
	default:
		// arbitrary Any values are stringified: the wire payload holds flat
		// scalars only, and dropping attributes would be worse
		p.Set(key, String(fmt.Sprint(v.Any())))
	}
}

// sanitizeKey coerces arbitrary slog attribute keys into valid payload keys.
func sanitizeKey(key string) string {
	if payloadKeyPattern.MatchString(key) {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 1)
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(byte(c))
		case c == '.', c == '-', c == '_':
			if b.Len() == 0 {
				b.WriteByte('x')
			}
			b.WriteByte(byte(c))
		default:
			if b.Len() == 0 {
				b.WriteByte('x')
			}
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}
