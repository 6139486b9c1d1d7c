// Package fastq provides streaming FASTQ record reading and writing.
package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Record represents a single FASTQ record.
type Record struct {
	Header   string // Header line without the leading '@'
	Sequence []byte // DNA sequence (A, C, G, T, N)
	Quality  []byte // Quality scores (Phred encoded, not validated)
}

// Reader reads FASTQ records from an input stream.
type Reader struct {
	reader *bufio.Reader
	line   []byte // reusable buffer for reading lines
}

// NewReader creates a new FASTQ reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: bufio.NewReaderSize(r, 1<<20), // 1MB buffer
		line:   make([]byte, 0, 512),
	}
}

// Next reads and returns the next FASTQ record.
// Returns io.EOF when no more records are available.
func (r *Reader) Next() (*Record, error) {
	rec := &Record{}

	// Line 1: Header (starts with @)
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '@' {
		return nil, errors.New("invalid FASTQ: header line must start with @")
	}
	rec.Header = string(line[1:]) // strip leading @

	// Line 2: Sequence
	line, err = r.readLine()
	if err != nil {
		return nil, err
	}
	rec.Sequence = make([]byte, len(line))
	copy(rec.Sequence, line)

	// Line 3: Plus line (we ignore it)
	line, err = r.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '+' {
		return nil, errors.New("invalid FASTQ: separator line must start with +")
	}

	// Line 4: Quality scores
	line, err = r.readLine()
	if err != nil {
		return nil, err
	}
	rec.Quality = make([]byte, len(line))
	copy(rec.Quality, line)

	// Validate lengths match
	if len(rec.Sequence) != len(rec.Quality) {
		return nil, errors.New("invalid FASTQ: sequence and quality lengths must match")
	}

	return rec, nil
}

// readLine reads a line from the input, stripping the newline.
// Reuses an internal buffer to minimize allocations.
func (r *Reader) readLine() ([]byte, error) {
	r.line = r.line[:0]

	for {
		segment, isPrefix, err := r.reader.ReadLine()
		if err != nil {
			return nil, err
		}

		r.line = append(r.line, segment...)

		if !isPrefix {
			break
		}
	}

	// Trim any trailing CR (for Windows line endings)
	r.line = bytes.TrimSuffix(r.line, []byte{'\r'})

	return r.line, nil
}

// Writer writes FASTQ records to an output stream.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new FASTQ writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 1<<20)}
}

// Write emits rec as four newline-terminated lines. The separator line
// is always written as a bare '+'.
func (w *Writer) Write(rec *Record) error {
	w.w.WriteByte('@')
	w.w.WriteString(rec.Header)
	w.w.WriteByte('\n')
	w.w.Write(rec.Sequence)
	w.w.WriteByte('\n')
	w.w.WriteByte('+')
	w.w.WriteByte('\n')
	w.w.Write(rec.Quality)
	_, err := w.w.Write([]byte{'\n'})
	return err
}

// Flush writes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
