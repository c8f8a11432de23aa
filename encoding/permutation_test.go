package encoding

import (
	"testing"

	"github.com/hupe1980/pprl/record"
	"github.com/hupe1980/pprl/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermutation_PreservesSimilarity(t *testing.T) {
	a, err := record.New("a", "b", 64, []uint{1, 5, 9, 33, 60})
	require.NoError(t, err)
	b, err := record.New("b", "b", 64, []uint{1, 5, 10, 33, 61})
	require.NoError(t, err)

	enc := NewPermutationHandler("s").ForParticipants([]string{"P1", "P2"})
	ea, err := enc.Encode(a)
	require.NoError(t, err)
	eb, err := enc.Encode(b)
	require.NoError(t, err)

	assert.Equal(t, a.Cardinality(), ea.Count())
	assert.Equal(t, similarity.Hamming(a.Encoding(), b.Encoding()), similarity.Hamming(ea, eb))
	assert.InDelta(t, similarity.Dice(a.Encoding(), b.Encoding()), similarity.Dice(ea, eb), 1e-12)
}

func TestPermutation_Deterministic(t *testing.T) {
	a, err := record.New("a", "b", 128, []uint{0, 7, 100})
	require.NoError(t, err)

	h := NewPermutationHandler("s")
	e1, err := h.ForParticipants([]string{"P1", "P2"}).Encode(a)
	require.NoError(t, err)
	e2, err := h.ForParticipants([]string{"P2", "P1"}).Encode(a)
	require.NoError(t, err)
	assert.True(t, e1.Equal(e2))

	e3, err := h.ForParticipants([]string{"P1", "P2", "P3"}).Encode(a)
	require.NoError(t, err)
	assert.False(t, e1.Equal(e3))

	e4, err := NewPermutationHandler("other").ForParticipants([]string{"P1", "P2"}).Encode(a)
	require.NoError(t, err)
	assert.False(t, e1.Equal(e4))
}

func TestPermutation_WithParty(t *testing.T) {
	p := record.NewMemoryParty("P1")
	r, err := record.New("a", "x", 32, []uint{3, 4})
	require.NoError(t, err)
	require.NoError(t, p.Add(r))

	enc := NewPermutationHandler("s").ForParticipants([]string{"P1"})
	require.NoError(t, p.EncodeBlock(enc, "x"))
	first := r.Encoding().Clone()

	// Encoding twice with the same participants is idempotent.
	require.NoError(t, p.EncodeBlock(enc, "x"))
	assert.True(t, first.Equal(r.Encoding()))
	assert.Equal(t, uint(2), r.Cardinality())
}
