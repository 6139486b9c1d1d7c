package dna

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseComplement(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "ACGT", "ACGT"},
		{"asymmetric", "AACG", "CGTT"},
		{"with N", "ACGNT", "ANCGT"},
		{"lowercase", "acgt", "acgt"},
		{"mixed case", "AcGt", "aCgT"},
		{"spec scenario", "TTAA", "TTAA"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.ReverseComplement([]byte(tt.in))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestReverseComplementIsInvolution(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	for _, seq := range []string{"ACGT", "AAAA", "ACGTN", "acgtn", "GATTACA", "NNNN", ""} {
		twice := table.ReverseComplement(table.ReverseComplement([]byte(seq)))
		assert.Equal(t, seq, string(twice), "double reverse complement of %q", seq)
	}
}

func TestComplementAndReverseCommute(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	for _, seq := range []string{"AACGT", "GATTACA", "ACGTNacgtn", "A", ""} {
		complementThenReverse := Reverse(table.Complement([]byte(seq)))
		reverseThenComplement := table.Complement(Reverse([]byte(seq)))
		assert.Equal(t, string(complementThenReverse), string(reverseThenComplement), "order must not matter for %q", seq)
		assert.Equal(t, string(table.ReverseComplement([]byte(seq))), string(complementThenReverse))
	}
}

func TestComplementPassesUnknownBytesThrough(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	in := "AC-GT.RYX9"
	got := table.Complement([]byte(in))
	assert.Equal(t, "TG-CA.RYX9", string(got))
}

func TestComplementDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	table := DefaultTable()

	in := []byte("ACGT")
	_ = table.Complement(in)
	_ = table.ReverseComplement(in)
	assert.Equal(t, "ACGT", string(in))
}

func TestNewTableCustomAlphabet(t *testing.T) {
	t.Parallel()

	// Arbitrary alphabet: tables are plain values, not process-wide state.
	table := NewTable(map[byte]byte{'X': 'Y', 'Y': 'X'})

	assert.Equal(t, "XXYY", string(table.ReverseComplement([]byte("XXYY"))))
	assert.Equal(t, "ACGT", string(table.Complement([]byte("ACGT"))))
}

func TestReverse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "JJJI", string(Reverse([]byte("IJJJ"))))
	assert.Equal(t, "", string(Reverse(nil)))
	assert.Equal(t, "A", string(Reverse([]byte("A"))))
}
