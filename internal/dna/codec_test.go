package dna

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	seqs := []string{
		"A", "T", "ACGT",
		"ACACACACACACACACACACACAC"[:23],
		"AAAAAAAAAAAAAAAAAAAAAAA",
	}
	for _, s := range seqs {
		word, err := Encode([]byte(s))
		require.NoError(t, err)
		got := Decode(word, len(s))
		require.Equal(t, s, string(got))
	}
}

func TestEncodeRejectsInvalidAlphabet(t *testing.T) {
	_, err := Encode([]byte("ACGN"))
	require.ErrorIs(t, err, ErrNotCanonicalAlphabet)
}

func TestReverseComplementInvolution(t *testing.T) {
	word, err := Encode([]byte("ACGTACGTACGTACGTACGTACG"))
	require.NoError(t, err)
	rc := ReverseComplement(word, 23)
	rc2 := ReverseComplement(rc, 23)
	require.Equal(t, word, rc2)
}

func TestReverseComplementKnownValue(t *testing.T) {
	word, err := Encode([]byte("ACGT"))
	require.NoError(t, err)
	rc := ReverseComplement(word, 4)
	require.Equal(t, "ACGT", string(Decode(rc, 4)))

	word, err = Encode([]byte("AAAA"))
	require.NoError(t, err)
	rc = ReverseComplement(word, 4)
	require.Equal(t, "TTTT", string(Decode(rc, 4)))
}

func TestCanonicalizeSymmetry(t *testing.T) {
	fwd, err := Encode([]byte("AAAAAAAAAAAAAAAAAAAAAAA"))
	require.NoError(t, err)
	rev, err := Encode([]byte("TTTTTTTTTTTTTTTTTTTTTTT"))
	require.NoError(t, err)

	cFwd, sFwd := Canonicalize(fwd, 23)
	cRev, sRev := Canonicalize(rev, 23)

	require.Equal(t, cFwd, cRev)
	require.Equal(t, Forward, sFwd)
	require.Equal(t, Reverse, sRev)
}

func TestComplementSeq(t *testing.T) {
	require.Equal(t, "ACGTN", string(ComplementSeq([]byte("NACGT"))))
}
