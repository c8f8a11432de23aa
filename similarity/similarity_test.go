package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(t *testing.T, id string, length uint, bits ...uint) *record.Record {
	t.Helper()
	r, err := record.New(id, "b", length, bits)
	require.NoError(t, err)
	return r
}

func TestCoefficients(t *testing.T) {
	x := bitset.New(16).Set(1).Set(2).Set(3).Set(4)
	y := bitset.New(16).Set(3).Set(4).Set(5).Set(6)

	assert.InDelta(t, 0.5, Dice(x, y), 1e-12)
	assert.InDelta(t, 2.0/6.0, Jaccard(x, y), 1e-12)
	assert.Equal(t, uint(4), Hamming(x, y))

	empty := bitset.New(16)
	assert.Equal(t, 1.0, Dice(empty, empty))
	assert.Equal(t, 1.0, Jaccard(empty, empty))
}

func TestPlain_Average(t *testing.T) {
	arena := cluster.NewArena()
	c1, _ := arena.New(rec(t, "a", 16, 1, 2, 3, 4))
	c2, _ := arena.New(rec(t, "b", 16, 1, 2, 3, 4))
	require.NoError(t, c1.Absorb(c2))

	q := rec(t, "q", 16, 1, 2, 3, 4)
	sim, err := Plain{}.Similarity(c1, q)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-12)

	far := rec(t, "f", 16, 9, 10, 11, 12)
	sim, err = Plain{}.Similarity(c1, far)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)

	_, err = Plain{}.Similarity(c2, q)
	assert.Error(t, err)
}

func TestSecure(t *testing.T) {
	arena := cluster.NewArena()
	c, _ := arena.New(rec(t, "a", 8, 0, 1))
	q := rec(t, "q", 8, 0, 2)

	sim, err := Secure{EncodingLength: 8}.Similarity(c, q)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sim, 1e-12)

	plain, err := Plain{}.Similarity(c, q)
	require.NoError(t, err)
	assert.InDelta(t, plain, sim, 1e-12)

	disjoint := rec(t, "d", 8, 4, 5, 6, 7)
	sim, err = Secure{EncodingLength: 8}.Similarity(c, disjoint)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)

	_, err = Secure{EncodingLength: 16}.Similarity(c, q)
	var lm *ErrLengthMismatch
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, uint(16), lm.Expected)

	_, err = Secure{}.Similarity(c, q)
	assert.ErrorIs(t, err, record.ErrInvalidLength)
}

func TestAverageHamming(t *testing.T) {
	arena := cluster.NewArena()
	x, _ := arena.New(rec(t, "a", 8, 0, 1))
	x2, _ := arena.New(rec(t, "b", 8, 0, 1, 2, 3))
	y, _ := arena.New(rec(t, "c", 8, 0))
	require.NoError(t, x.Absorb(x2))

	d, err := AverageHamming{}.Distance(x, y)
	require.NoError(t, err)
	assert.InDelta(t, (1.0+3.0)/2.0, d, 1e-12)

	d2, err := AverageHamming{}.Distance(y, x)
	require.NoError(t, err)
	assert.Equal(t, d, d2)

	_, err = AverageHamming{}.Distance(x2, y)
	assert.Error(t, err)
}

func TestQueryRadius_BoundsJaccard(t *testing.T) {
	q := rec(t, "q", 64, 0, 1, 2, 3, 4, 5, 6, 7)
	assert.InDelta(t, 8*0.25/0.75, QueryRadius(q, 0.75), 1e-12)

	// Every encoding with Jaccard ≥ t lies within the radius.
	candidates := [][]uint{
		{0, 1, 2, 3, 4, 5, 6, 7},
		{0, 1, 2, 3, 4, 5, 6},
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{0, 1, 2, 3, 4, 5, 8},
	}
	for _, bits := range candidates {
		c := rec(t, "c", 64, bits...)
		if Jaccard(q.Encoding(), c.Encoding()) >= 0.75 {
			assert.LessOrEqual(t, float64(Hamming(q.Encoding(), c.Encoding())), QueryRadius(q, 0.75))
		}
	}
}

func TestCheck(t *testing.T) {
	v, err := CheckSimilarity(0.5, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	for _, bad := range []float64{-0.1, 1.1, math.NaN()} {
		_, err := CheckSimilarity(bad, nil)
		assert.ErrorIs(t, err, ErrOracleFailure)
	}
	_, err = CheckSimilarity(0, errors.New("boom"))
	assert.ErrorIs(t, err, ErrOracleFailure)

	_, err = CheckDistance(-1, nil)
	assert.ErrorIs(t, err, ErrOracleFailure)
	_, err = CheckDistance(math.Inf(1), nil)
	assert.ErrorIs(t, err, ErrOracleFailure)
	d, err := CheckDistance(3, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, d)
}

func TestFuncAdapters(t *testing.T) {
	o := OracleFunc(func(*cluster.Cluster, *record.Record) (float64, error) { return 0.25, nil })
	v, err := o.Similarity(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	m := MetricFunc(func(*cluster.Cluster, *cluster.Cluster) (float64, error) { return 2, nil })
	d, err := m.Distance(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d)
}
