// Package codec provides gzip line-stream transducers for the stitch pipeline.
//
// A Codec turns compressed files into text streams and text streams into
// compressed bytes. Two families exist: external compressor processes
// (pigz, gzip) reached through OS pipes, and an in-process implementation
// used when no tool is installed and as a test substitute.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Codec is a pair of gzip stream transducers.
//
// NewReader decompresses the file at path into a text stream. NewWriter
// compresses a text stream onto w; its Close flushes the compressed tail
// and waits for the stage to finish, so a returned nil means the output
// is complete.
type Codec interface {
	Name() string
	NewReader(path string) (io.ReadCloser, error)
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Detect returns the best available codec: pigz if installed, then gzip,
// falling back to the in-process implementation.
func Detect() Codec {
	for _, tool := range []string{"pigz", "gzip"} {
		if c, err := Exec(tool); err == nil {
			return c
		}
	}
	return Internal()
}

// Internal returns an in-process gzip codec.
func Internal() Codec {
	return internalCodec{}
}

type internalCodec struct{}

func (internalCodec) Name() string { return "internal" }

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// NewReader opens path, sniffing the gzip magic bytes. Plain text files
// are passed through uncompressed, matching what the external tools'
// callers can feed the pipeline.
func (internalCodec) NewReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}

	br := bufio.NewReaderSize(f, 1<<20)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("inspecting input: %w", err)
	}

	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip input: %w", err)
		}
		return &multiReadCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	}

	return &multiReadCloser{Reader: br, closers: []io.Closer{f}}, nil
}

// NewWriter wraps w in a gzip stream. Close flushes the stream but leaves
// w open; the caller owns the destination.
func (internalCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}
