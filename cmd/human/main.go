// Command human formats machine-readable cosmolog streams for humans.
//
// It reads newline-delimited JSON events from stdin (or from file
// arguments; .gz and .zst files are decompressed transparently) and writes
// one formatted line per event to stdout. Malformed lines are reported on
// stderr and skipped; one bad event never stops the stream.
//
// Usage:
//
//	tail -f myapp.log | human
//	human -v 400 -datefmt "2006-01-02 15:04:05" myapp.log.gz
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/planetlabs/cosmolog"
	"github.com/planetlabs/cosmolog/internal/input"
)

func main() {
	verbosity := flag.Int("v", int(cosmolog.LevelTrace),
		"Maximum level code to show (FATAL=100 ERROR=200 WARN=300 INFO=400 DEBUG=500 TRACE=600)")
	datefmt := flag.String("datefmt", "", `Go time layout for dates (default "Jan 02 15:04:05")`)
	noColor := flag.Bool("no-color", false, "Do not print with colors")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}
	useColor := !color.NoColor

	p := &pump{
		out:    os.Stdout,
		errOut: os.Stderr,
		formatter: cosmolog.NewHumanFormatter(cosmolog.HumanOptions{
			DateFormat: *datefmt,
			Color:      useColor,
		}),
		verbosity: cosmolog.Level(*verbosity),
		color:     useColor,
	}

	sources := flag.Args()
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	for _, name := range sources {
		r, err := input.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "human: %v\n", err)
			os.Exit(1)
		}
		err = p.run(r)
		r.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "human: %v\n", err)
			os.Exit(1)
		}
	}
}
