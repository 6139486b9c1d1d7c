// Package dna provides reverse-complement primitives for DNA sequences.
package dna

// ComplementTable maps each byte to its complement. Bytes without a
// defined complement map to themselves, so arbitrary identifier or
// separator bytes survive a round trip unchanged.
type ComplementTable [256]byte

// DefaultTable returns the standard DNA complement table:
// A<->T, C<->G, N->N, case preserved, everything else passed through.
func DefaultTable() ComplementTable {
	return NewTable(map[byte]byte{
		'A': 'T', 'T': 'A',
		'C': 'G', 'G': 'C',
		'N': 'N',
		'a': 't', 't': 'a',
		'c': 'g', 'g': 'c',
		'n': 'n',
	})
}

// NewTable builds a complement table from explicit byte pairs.
// Unlisted bytes map to themselves.
func NewTable(pairs map[byte]byte) ComplementTable {
	var t ComplementTable
	for i := range t {
		t[i] = byte(i)
	}
	for from, to := range pairs {
		t[from] = to
	}
	return t
}

// Complement returns a new slice with every byte translated through the table.
func (t *ComplementTable) Complement(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[i] = t[b]
	}
	return out
}

// ReverseComplement returns the reverse complement of seq: each byte
// complemented and the whole sequence reversed.
func (t *ComplementTable) ReverseComplement(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = t[seq[n-1-i]]
	}
	return out
}

// Reverse returns a new slice with the bytes of b in reverse order.
func Reverse(b []byte) []byte {
	n := len(b)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = b[n-1-i]
	}
	return out
}
