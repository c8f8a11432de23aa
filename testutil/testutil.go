package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/pprl/record"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Positions returns count distinct, sorted bit positions in [0, length).
func (r *RNG) Positions(length uint, count int) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.positionsLocked(length, count)
}

func (r *RNG) positionsLocked(length uint, count int) []uint {
	if count > int(length) {
		count = int(length)
	}
	perm := r.rand.Perm(int(length))[:count]
	out := make([]uint, count)
	for i, p := range perm {
		out[i] = uint(p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Entities generates n independent encodings with count bits set each.
func (r *RNG) Entities(n int, length uint, count int) [][]uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]uint, n)
	for i := range out {
		out[i] = r.positionsLocked(length, count)
	}
	return out
}

// Perturb returns a copy of positions with flips distinct bits toggled.
func (r *RNG) Perturb(positions []uint, length uint, flips int) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := make(map[uint]struct{}, len(positions)+flips)
	for _, p := range positions {
		set[p] = struct{}{}
	}
	for _, p := range r.positionsLocked(length, flips) {
		if _, ok := set[p]; ok {
			delete(set, p)
		} else {
			set[p] = struct{}{}
		}
	}

	out := make([]uint, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BlockFunc assigns a blocking key to the i-th entity.
type BlockFunc func(i int) string

// SingleBlock puts every record into the same block.
func SingleBlock(int) string { return "" }

// ModBlocks spreads entities round-robin over n blocks named "b0".."b<n-1>".
func ModBlocks(n int) BlockFunc {
	return func(i int) string { return fmt.Sprintf("b%d", i%n) }
}

// Party builds a party holding a noisy copy of every entity.
// Record i is named "e<i>" so that copies of one entity share an id across
// parties.
func (r *RNG) Party(id string, entities [][]uint, length uint, flips int, block BlockFunc) (*record.MemoryParty, error) {
	p := record.NewMemoryParty(id)
	for i, e := range entities {
		positions := e
		if flips > 0 {
			positions = r.Perturb(e, length, flips)
		}
		rec, err := record.New(fmt.Sprintf("e%d", i), block(i), length, positions)
		if err != nil {
			return nil, err
		}
		if err := p.Add(rec); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// PairQuality scores clusters of "party/id" members against the ground truth
// that members with the same id denote the same entity.
// Both values are 1 when no pairs exist on either side.
func PairQuality(clusters [][]string) (precision, recall float64) {
	entityOf := func(member string) string {
		if i := strings.LastIndexByte(member, '/'); i >= 0 {
			return member[i+1:]
		}
		return member
	}

	var found, correct int
	sizes := make(map[string]int)
	for _, c := range clusters {
		for i := range c {
			sizes[entityOf(c[i])]++
			for j := i + 1; j < len(c); j++ {
				found++
				if entityOf(c[i]) == entityOf(c[j]) {
					correct++
				}
			}
		}
	}

	var truth int
	for _, n := range sizes {
		truth += n * (n - 1) / 2
	}

	precision, recall = 1, 1
	if found > 0 {
		precision = float64(correct) / float64(found)
	}
	if truth > 0 {
		recall = float64(correct) / float64(truth)
	}
	return precision, recall
}
