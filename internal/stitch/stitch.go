// Package stitch merges paired-end FASTQ files into synthetic single-end reads.
//
// The pipeline is three concurrently running transducer stages (decompress
// read 1, decompress read 2, compress output) joined by a single strictly
// synchronous record-pairing loop. Backpressure couples the stages through
// pipe and buffer bounds, so peak memory is independent of file size.
package stitch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/seqops/stitchq/internal/codec"
	"github.com/seqops/stitchq/internal/dna"
	"github.com/seqops/stitchq/internal/fastq"
)

// ProgressInterval is the number of merged records between progress callbacks.
const ProgressInterval = 100000

// ErrDesync reports that the two input files hold different record counts.
var ErrDesync = errors.New("paired inputs have different record counts")

// Padding spacer bytes inserted between the two mates.
const (
	PadBase    = 'N' // unresolved gap
	PadQuality = '!' // Phred 0
)

// Options configures a stitching run.
type Options struct {
	Padding  int                  // spacer length, must be >= 1
	Codec    codec.Codec          // nil: codec.Detect()
	Table    *dna.ComplementTable // nil: dna.DefaultTable()
	Progress func(records int64)  // called every ProgressInterval records
}

// Stitch merges the compressed FASTQ files at r1Path and r2Path into one
// compressed single-end FASTQ file at dstPath. Each output record is
// read 1, a padding spacer, and the reverse complement of read 2, under
// read 1's identifier. Returns the number of merged records.
//
// On any failure after the destination is created, the partial output is
// removed before the error is returned; callers never observe a truncated
// file as if it were complete.
func Stitch(r1Path, r2Path, dstPath string, opts *Options) (int64, error) {
	if opts == nil || opts.Padding < 1 {
		return 0, errors.New("padding must be at least 1")
	}

	cdc := opts.Codec
	if cdc == nil {
		cdc = codec.Detect()
	}
	table := opts.Table
	if table == nil {
		t := dna.DefaultTable()
		table = &t
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return 0, fmt.Errorf("creating output: %w", err)
	}

	n, err := stitchInto(out, r1Path, r2Path, cdc, table, opts.Padding, opts.Progress)
	if err != nil {
		out.Close()
		os.Remove(dstPath)
		return 0, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dstPath)
		return 0, fmt.Errorf("closing output: %w", err)
	}
	return n, nil
}

func stitchInto(out io.Writer, r1Path, r2Path string, cdc codec.Codec, table *dna.ComplementTable, padding int, progress func(int64)) (int64, error) {
	a, err := cdc.NewReader(r1Path)
	if err != nil {
		return 0, fmt.Errorf("read 1: %w", err)
	}
	defer a.Close()

	b, err := cdc.NewReader(r2Path)
	if err != nil {
		return 0, fmt.Errorf("read 2: %w", err)
	}
	defer b.Close()

	zw, err := cdc.NewWriter(out)
	if err != nil {
		return 0, fmt.Errorf("output: %w", err)
	}
	defer zw.Close()

	ra := fastq.NewReader(a)
	rb := fastq.NewReader(b)
	w := fastq.NewWriter(zw)

	padSeq := bytes.Repeat([]byte{PadBase}, padding)
	padQual := bytes.Repeat([]byte{PadQuality}, padding)

	var count int64
	for {
		rec1, err := ra.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read 1: %w", err)
		}

		rec2, err := rb.Next()
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: read 2 ended after %d records", ErrDesync, count)
		}
		if err != nil {
			return 0, fmt.Errorf("read 2: %w", err)
		}

		if err := w.Write(merge(rec1, rec2, table, padSeq, padQual)); err != nil {
			return 0, fmt.Errorf("writing output: %w", err)
		}

		count++
		if progress != nil && count%ProgressInterval == 0 {
			progress(count)
		}
	}

	// Read 1 drives termination; read 2 must end with it.
	if _, err := rb.Next(); !errors.Is(err, io.EOF) {
		if err != nil {
			return 0, fmt.Errorf("read 2: %w", err)
		}
		return 0, fmt.Errorf("%w: read 2 has records beyond %d", ErrDesync, count)
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("writing output: %w", err)
	}
	// Closing the compression stage flushes its tail; only then is the
	// output complete.
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("compressing output: %w", err)
	}
	// Decompressor exit status surfaces on Close; a clean EOF from a
	// failed child must not count as success.
	if err := a.Close(); err != nil {
		return 0, fmt.Errorf("read 1: %w", err)
	}
	if err := b.Close(); err != nil {
		return 0, fmt.Errorf("read 2: %w", err)
	}
	return count, nil
}

// merge builds the stitched record: read 2's identifier is discarded, its
// sequence reverse-complemented and its quality reversed verbatim.
func merge(r1, r2 *fastq.Record, table *dna.ComplementTable, padSeq, padQual []byte) *fastq.Record {
	seq := make([]byte, 0, len(r1.Sequence)+len(padSeq)+len(r2.Sequence))
	seq = append(seq, r1.Sequence...)
	seq = append(seq, padSeq...)
	seq = append(seq, table.ReverseComplement(r2.Sequence)...)

	qual := make([]byte, 0, len(r1.Quality)+len(padQual)+len(r2.Quality))
	qual = append(qual, r1.Quality...)
	qual = append(qual, padQual...)
	qual = append(qual, dna.Reverse(r2.Quality)...)

	return &fastq.Record{Header: r1.Header, Sequence: seq, Quality: qual}
}
