package cosmolog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Level is a log severity code. Lower codes are more severe.
type Level int

const (
	LevelFatal Level = 100
	LevelError Level = 200
	LevelWarn  Level = 300
	LevelInfo  Level = 400
	LevelDebug Level = 500
	LevelTrace Level = 600
)

// ErrUnknownLevel is returned by ParseLevel for names outside the level table.
var ErrUnknownLevel = errors.New("unknown level name")

var levelNames = map[Level]string{
	LevelFatal: "FATAL",
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

var levelCodes = map[string]Level{
	"FATAL": LevelFatal,
	"ERROR": LevelError,
	"WARN":  LevelWarn,
	"INFO":  LevelInfo,
	"DEBUG": LevelDebug,
	"TRACE": LevelTrace,
}

// ParseLevel resolves a severity name to its code. Matching is
// case-insensitive. Unknown names fail with an error wrapping
// ErrUnknownLevel.
func ParseLevel(name string) (Level, error) {
	if l, ok := levelCodes[strings.ToUpper(name)]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Name returns the symbolic name for the level. Codes outside the table get
// their decimal form as a best-effort label: the human formatter must never
// refuse to print a line because a producer used a level this build does not
// know.
func (l Level) Name() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

func (l Level) String() string { return l.Name() }

// Enables reports whether a logger with minimum level l emits events at
// level other. Lower codes are more severe, so FATAL passes any threshold.
func (l Level) Enables(other Level) bool { return other <= l }

// Decode implements envconfig.Decoder so a Level can be configured from the
// environment by name.
func (l *Level) Decode(value string) error {
	level, err := ParseLevel(value)
	if err != nil {
		return err
	}
	*l = level
	return nil
}
