package cosmolog

import (
	"strings"
	"time"

	"github.com/fatih/color"
)

// Formatter renders one decoded event into its output representation.
type Formatter interface {
	Format(e *Event) (string, error)
}

// EventFormatter re-emits events in canonical wire form, one JSON object per
// line (without the newline).
type EventFormatter struct{}

func (EventFormatter) Format(e *Event) (string, error) {
	b, err := Encode(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DefaultDateFormat is the abbreviated date-time used on human lines. It
// keeps date, hour, minute and second and drops sub-second precision.
const DefaultDateFormat = "Jan 02 15:04:05"

// HumanOptions configures a HumanFormatter.
type HumanOptions struct {
	// DateFormat is a Go time layout. Empty means DefaultDateFormat.
	DateFormat string
	// Color turns on ANSI colors. Colors are forced on regardless of
	// terminal detection; the caller decides.
	Color bool
}

// HumanFormatter renders events as single human-readable lines:
//
//	<date-time> <origin> <stream_name>: [<LEVEL>] <message>
//
// Events carrying exc_text are augmented first so the traceback appears in
// the message. An empty format falls back to space-separated key=value
// pairs in payload order, so every event produces a visible line.
type HumanFormatter struct {
	datefmt string
	color   bool
	origin  *color.Color
	stream  *color.Color
	date    *color.Color
	clock   *color.Color
	levels  map[Level]string
}

// NewHumanFormatter builds a human line formatter.
func NewHumanFormatter(opts HumanOptions) *HumanFormatter {
	f := &HumanFormatter{datefmt: opts.DateFormat, color: opts.Color}
	if f.datefmt == "" {
		f.datefmt = DefaultDateFormat
	}
	if opts.Color {
		f.origin = forced(color.FgBlue)
		f.stream = forced(color.FgYellow)
		f.date = forced(color.FgRed)
		f.clock = forced(color.FgGreen)
		f.levels = map[Level]string{
			LevelFatal: forced(color.BgRed).Sprint("FATAL"),
			LevelError: forced(color.BgRed).Sprint("ERROR"),
			LevelWarn:  forced(color.FgYellow).Sprint("WARN"),
			LevelInfo:  forced(color.FgGreen).Sprint("INFO"),
		}
	}
	return f
}

func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func (f *HumanFormatter) Format(e *Event) (string, error) {
	if exc, ok := e.Payload.Get(ExcTextKey); ok {
		e = AttachException(e, exc.Text())
	}

	var msg string
	if e.Format != "" {
		msg = Render(e.Format, e.Payload)
	} else {
		msg = fallbackMessage(e.Payload)
	}

	levelName := e.Level.Name()
	origin := e.Origin
	stream := e.StreamName
	if f.color {
		if c, ok := f.levels[e.Level]; ok {
			levelName = c
		}
		origin = f.origin.Sprint(origin)
		stream = f.stream.Sprint(stream)
	}

	var b strings.Builder
	b.WriteString(f.formatTimestamp(e.Timestamp))
	b.WriteByte(' ')
	b.WriteString(origin)
	b.WriteByte(' ')
	b.WriteString(stream)
	b.WriteString(": [")
	b.WriteString(levelName)
	b.WriteString("] ")
	b.WriteString(msg)
	return b.String(), nil
}

func (f *HumanFormatter) formatTimestamp(t time.Time) string {
	t = t.UTC()
	if f.color && f.datefmt == DefaultDateFormat {
		return f.date.Sprint(t.Format("Jan 02")) + " " + f.clock.Sprint(t.Format("15:04:05"))
	}
	return t.Format(f.datefmt)
}

func fallbackMessage(p *Payload) string {
	if p.Len() == 0 {
		return ""
	}
	parts := make([]string, 0, p.Len())
	p.Visit(func(k string, v Value) {
		parts = append(parts, k+"="+v.Text())
	})
	return strings.Join(parts, " ")
}
