package encoding

import (
	"math/rand"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/pprl/internal/hash"
	"github.com/hupe1980/pprl/record"
)

// PermutationHandler implements record.EncodingHandler.
// Secret is mixed into every derived seed.
type PermutationHandler struct {
	Secret string
}

// NewPermutationHandler creates a handler keyed by secret.
func NewPermutationHandler(secret string) *PermutationHandler {
	return &PermutationHandler{Secret: secret}
}

// ForParticipants implements record.EncodingHandler.
func (h *PermutationHandler) ForParticipants(partyIDs []string) record.Encoder {
	names := append([]string{"\x00secret:" + h.Secret}, partyIDs...)
	return &Permutation{
		seed:  hash.SetSeed(names),
		perms: make(map[uint][]uint),
	}
}

// Permutation is a record.Encoder that permutes bit positions.
// Permutations are cached per encoding length.
type Permutation struct {
	seed  int64
	mu    sync.Mutex
	perms map[uint][]uint
}

// Seed returns the seed the permutation was derived from.
func (p *Permutation) Seed() int64 { return p.seed }

// Encode implements record.Encoder.
func (p *Permutation) Encode(r *record.Record) (*bitset.BitSet, error) {
	perm := p.permutation(r.Length())
	src := r.Original()
	out := bitset.New(r.Length())
	for i, ok := src.NextSet(0); ok; i, ok = src.NextSet(i + 1) {
		out.Set(perm[i])
	}
	return out, nil
}

func (p *Permutation) permutation(length uint) []uint {
	p.mu.Lock()
	defer p.mu.Unlock()

	if perm, ok := p.perms[length]; ok {
		return perm
	}
	rng := rand.New(rand.NewSource(p.seed ^ int64(length))) // nolint gosec
	perm := make([]uint, length)
	for i, v := range rng.Perm(int(length)) {
		perm[i] = uint(v)
	}
	p.perms[length] = perm
	return perm
}
