package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/planetlabs/cosmolog"
)

// maxLineBytes bounds a single input line. Events are small; anything
// larger is a broken producer.
const maxLineBytes = 1 << 20

// pump reads newline-delimited events and writes human lines, one per input
// line, in input order. Decode failures go to errOut as diagnostics and the
// stream continues; only I/O failures surface as errors.
type pump struct {
	out       io.Writer
	errOut    io.Writer
	formatter cosmolog.Formatter
	verbosity cosmolog.Level
	color     bool
}

func (p *pump) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		p.processLine(bytes.TrimSpace(sc.Bytes()))
	}
	return sc.Err()
}

func (p *pump) processLine(line []byte) {
	if len(line) == 0 {
		return
	}
	e, err := cosmolog.Decode(line)
	if err != nil {
		msg := fmt.Sprintf("Failed to interpret '%s': %v", line, err)
		if p.color {
			c := color.New(color.FgRed)
			c.EnableColor()
			msg = c.Sprint(msg)
		}
		fmt.Fprintln(p.errOut, msg)
		return
	}
	if !p.verbosity.Enables(e.Level) {
		return
	}
	out, err := p.formatter.Format(e)
	if err != nil {
		fmt.Fprintf(p.errOut, "Failed to format '%s': %v\n", line, err)
		return
	}
	fmt.Fprintln(p.out, out)
}
