package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositions(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.Positions(64, 10)

	require.Len(t, p, 10)
	assert.IsIncreasing(t, p)
	assert.Less(t, p[9], uint(64))
	assert.Len(t, rng.Positions(4, 10), 4)
}

func TestPerturb(t *testing.T) {
	rng := NewRNG(4711)
	base := rng.Positions(256, 40)

	noisy := rng.Perturb(base, 256, 6)

	set := make(map[uint]bool)
	for _, p := range base {
		set[p] = true
	}
	diff := 0
	for _, p := range noisy {
		if !set[p] {
			diff++
		}
		delete(set, p)
	}
	assert.Equal(t, 6, diff+len(set))
	assert.IsIncreasing(t, noisy)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Entities(2, 128, 16)
	rng.Reset()
	v2 := rng.Entities(2, 128, 16)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestParty(t *testing.T) {
	rng := NewRNG(1)
	entities := rng.Entities(6, 128, 16)

	p, err := rng.Party("A", entities, 128, 2, ModBlocks(2))
	require.NoError(t, err)

	assert.Equal(t, 6, p.RecordCount())
	blocks := p.RecordsByBlock()
	assert.Len(t, blocks["b0"], 3)
	assert.Len(t, blocks["b1"], 3)
	assert.Equal(t, "A/e0", p.Records()[0].String())
}

func TestPairQuality(t *testing.T) {
	tests := []struct {
		name      string
		clusters  [][]string
		precision float64
		recall    float64
	}{
		{"perfect", [][]string{{"A/e0", "B/e0"}, {"A/e1", "B/e1"}}, 1, 1},
		{"split", [][]string{{"A/e0"}, {"B/e0"}, {"A/e1", "B/e1"}}, 1, 0.5},
		{"wrong", [][]string{{"A/e0", "B/e1"}, {"A/e1", "B/e0"}}, 0, 0},
		{"empty", nil, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, r := PairQuality(tt.clusters)
			assert.InDelta(t, tt.precision, p, 1e-12)
			assert.InDelta(t, tt.recall, r, 1e-12)
		})
	}
}
