// Package input opens log sources for the human tool, transparently
// decompressing gzip and zstd files by extension.
package input

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type source struct {
	io.Reader
	close func() error
}

func (s *source) Close() error { return s.close() }

// Open returns a reader over the named log source. "-" means stdin (left
// open). Files ending in .gz or .zst are decompressed on the fly.
func Open(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &source{Reader: zr, close: func() error {
			zErr := zr.Close()
			if err := f.Close(); err != nil {
				return err
			}
			return zErr
		}}, nil
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &source{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, nil
	}
	return f, nil
}
