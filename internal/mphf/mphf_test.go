package mphf

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func distinctRandomKeys(n int, seed int64) []uint64 {
	r := rand.New(rand.NewSource(seed))
	seen := make(map[uint64]bool, n)
	keys := make([]uint64, 0, n)
	for len(keys) < n {
		k := r.Uint64()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

func TestBuildIsMinimalPerfect(t *testing.T) {
	for _, n := range []int{1, 2, 5, 37, 500, 3000} {
		keys := distinctRandomKeys(n, int64(n)*7+1)
		m, err := Build(keys, 42)
		require.NoError(t, err)
		require.Equal(t, uint64(n), m.N())

		seen := make([]bool, n)
		for _, k := range keys {
			id := m.Lookup(k)
			require.Less(t, id, uint64(n))
			require.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		for _, s := range seen {
			require.True(t, s)
		}
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	keys := distinctRandomKeys(1000, 99)
	m, err := Build(keys, 7)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Serialize(&buf))

	m2, err := Deserialize(&buf)
	require.NoError(t, err)
	require.Equal(t, m.N(), m2.N())

	for _, k := range keys {
		require.Equal(t, m.Lookup(k), m2.Lookup(k))
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	_, err := Deserialize(bytes.NewReader([]byte("not-a-valid-pf-file-header-at-all")))
	require.Error(t, err)
}
