package cosmolog

import (
	"io"
	"sync"
	"time"
)

// Logger emits events for one stream as newline-delimited JSON. It is safe
// for concurrent use; writes to the sink are serialized. Payloads passed to
// a log call belong to the emitted event and must not be mutated afterwards.
type Logger struct {
	cfg    *Config
	stream string

	mu sync.Mutex
	w  io.Writer
}

// New creates a logger for the given stream writing to w. The stream name
// is validated eagerly so a misnamed stream fails at construction.
func New(cfg *Config, streamName string, w io.Writer) (*Logger, error) {
	if err := validateStreamName(streamName); err != nil {
		return nil, err
	}
	return &Logger{cfg: cfg, stream: streamName, w: w}, nil
}

// Log emits one event at the given level. Events below the configured
// minimum severity are dropped without error.
func (l *Logger) Log(level Level, format string, payload *Payload) error {
	return l.emit(level, format, payload, "")
}

func (l *Logger) Fatal(format string, payload *Payload) error {
	return l.Log(LevelFatal, format, payload)
}

func (l *Logger) Error(format string, payload *Payload) error {
	return l.Log(LevelError, format, payload)
}

func (l *Logger) Warn(format string, payload *Payload) error {
	return l.Log(LevelWarn, format, payload)
}

func (l *Logger) Info(format string, payload *Payload) error {
	return l.Log(LevelInfo, format, payload)
}

func (l *Logger) Debug(format string, payload *Payload) error {
	return l.Log(LevelDebug, format, payload)
}

func (l *Logger) Trace(format string, payload *Payload) error {
	return l.Log(LevelTrace, format, payload)
}

// Exception logs at ERROR with excText attached under exc_text. The
// traceback is an explicit argument: there is no ambient "current exception"
// to inspect, callers pass err.Error() or a stack dump themselves. An empty
// excText behaves exactly like Error.
func (l *Logger) Exception(excText, format string, payload *Payload) error {
	return l.emit(LevelError, format, payload, excText)
}

func (l *Logger) emit(level Level, format string, payload *Payload, excText string) error {
	if !l.cfg.Level.Enables(level) {
		return nil
	}
	e, err := NewEvent(l.stream, l.cfg.Origin, time.Now(), level, format, payload)
	if err != nil {
		return err
	}
	if excText != "" {
		e = AttachException(e, excText)
	}
	line, err := EncodeLine(e)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(line)
	return err
}
