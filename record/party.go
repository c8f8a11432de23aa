package record

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// ErrDuplicateRecord is returned when a party already holds a record with the same id.
var ErrDuplicateRecord = errors.New("duplicate record id")

// ErrRecordOwned is returned when a record already belongs to another party.
var ErrRecordOwned = errors.New("record already owned by a party")

// Encoder re-encodes a single record.
// Implementations must be deterministic for identical inputs.
type Encoder interface {
	Encode(r *Record) (*bitset.BitSet, error)
}

// EncodingHandler builds encoders for a participant subset.
type EncodingHandler interface {
	ForParticipants(partyIDs []string) Encoder
}

// Party is a data holder contributing encoded records.
type Party interface {
	// ID returns the party identifier.
	ID() string
	// Records returns all records in insertion order.
	Records() []*Record
	// RecordCount returns the number of records.
	RecordCount() int
	// RecordsByBlock returns the records grouped by blocking key,
	// each group in insertion order.
	RecordsByBlock() map[string][]*Record
	// Encode re-encodes every record.
	Encode(enc Encoder) error
	// EncodeBlock re-encodes the records of one block.
	EncodeBlock(enc Encoder, block string) error
}

// MemoryParty is an in-memory Party.
type MemoryParty struct {
	id      string
	records []*Record
	byID    map[string]struct{}
	blocks  map[string][]*Record
}

// NewMemoryParty creates an empty party.
func NewMemoryParty(id string) *MemoryParty {
	return &MemoryParty{
		id:     id,
		byID:   make(map[string]struct{}),
		blocks: make(map[string][]*Record),
	}
}

// Add appends records to the party and takes ownership of them.
func (p *MemoryParty) Add(records ...*Record) error {
	for _, r := range records {
		if r.party != "" && r.party != p.id {
			return fmt.Errorf("%w: %s belongs to %s", ErrRecordOwned, r.id, r.party)
		}
		if _, ok := p.byID[r.id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateRecord, r.id)
		}
		r.party = p.id
		p.byID[r.id] = struct{}{}
		p.records = append(p.records, r)
		p.blocks[r.block] = append(p.blocks[r.block], r)
	}
	return nil
}

// ID implements Party.
func (p *MemoryParty) ID() string { return p.id }

// Records implements Party.
func (p *MemoryParty) Records() []*Record { return p.records }

// RecordCount implements Party.
func (p *MemoryParty) RecordCount() int { return len(p.records) }

// RecordsByBlock implements Party.
func (p *MemoryParty) RecordsByBlock() map[string][]*Record {
	out := make(map[string][]*Record, len(p.blocks))
	for k, v := range p.blocks {
		out[k] = v
	}
	return out
}

// Encode implements Party.
func (p *MemoryParty) Encode(enc Encoder) error {
	return encodeAll(enc, p.records)
}

// EncodeBlock implements Party. Unknown blocks are a no-op.
func (p *MemoryParty) EncodeBlock(enc Encoder, block string) error {
	return encodeAll(enc, p.blocks[block])
}

func encodeAll(enc Encoder, records []*Record) error {
	for _, r := range records {
		bits, err := enc.Encode(r)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", r, err)
		}
		if err := r.setEncoding(bits); err != nil {
			return fmt.Errorf("encode record %s: %w", r, err)
		}
	}
	return nil
}

// Blocks returns the sorted union of block keys across parties.
func Blocks(parties []Party) []string {
	seen := make(map[string]struct{})
	for _, p := range parties {
		for k := range p.RecordsByBlock() {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PartyIDs returns the identifiers of parties in order.
func PartyIDs(parties []Party) []string {
	ids := make([]string, len(parties))
	for i, p := range parties {
		ids[i] = p.ID()
	}
	return ids
}
