package cosmolog

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// FormatterKind selects one of the built-in formatter variants.
type FormatterKind string

const (
	// FormatterEvent emits canonical JSON wire lines.
	FormatterEvent FormatterKind = "event"
	// FormatterHuman emits human-readable lines.
	FormatterHuman FormatterKind = "human"
)

// Decode implements envconfig.Decoder.
func (k *FormatterKind) Decode(value string) error {
	switch kind := FormatterKind(strings.ToLower(value)); kind {
	case FormatterEvent, FormatterHuman:
		*k = kind
		return nil
	}
	return fmt.Errorf("unknown formatter %q", value)
}

// Config carries the process-wide logging settings: the origin stamped on
// every emitted event, the minimum severity that will be emitted, and the
// formatter variant. It is built once at startup and passed explicitly;
// nothing in this package reads global mutable state.
type Config struct {
	Origin    string        `envconfig:"origin"`
	Level     Level         `envconfig:"level" default:"INFO"`
	Formatter FormatterKind `envconfig:"formatter" default:"event"`
	Version   int           `ignored:"true"`
}

// LoadConfig builds the process configuration from COSMOLOG_* environment
// variables. The origin defaults to the local host name and the minimum
// level to INFO. The origin is validated eagerly so a bad deployment fails
// at startup, not on the first log call.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("cosmolog", cfg); err != nil {
		return nil, err
	}
	cfg.Version = SchemaVersion
	if cfg.Origin == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("resolve default origin: %w", err)
		}
		cfg.Origin = host
	}
	if err := validateOrigin(cfg.Origin); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFormatter returns the formatter variant the config selects.
func (c *Config) NewFormatter() Formatter {
	if c.Formatter == FormatterHuman {
		return NewHumanFormatter(HumanOptions{})
	}
	return EventFormatter{}
}
