package record

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrEmptyID is returned when a record has no identifier.
	ErrEmptyID = errors.New("record id must not be empty")

	// ErrInvalidLength is returned for a zero encoding length.
	ErrInvalidLength = errors.New("encoding length must be positive")
)

// ErrPositionOutOfRange indicates a set bit beyond the encoding length.
type ErrPositionOutOfRange struct {
	Position uint
	Length   uint
}

func (e *ErrPositionOutOfRange) Error() string {
	return fmt.Sprintf("bit position %d out of range for encoding length %d", e.Position, e.Length)
}

// Record is an encoded record identifier.
type Record struct {
	id     string
	party  string
	block  string
	length uint
	raw    *bitset.BitSet
	bits   *bitset.BitSet
}

// New creates a record whose encoding has the given set bit positions.
func New(id, block string, length uint, positions []uint) (*Record, error) {
	if length == 0 {
		return nil, ErrInvalidLength
	}
	bits := bitset.New(length)
	for _, p := range positions {
		if p >= length {
			return nil, &ErrPositionOutOfRange{Position: p, Length: length}
		}
		bits.Set(p)
	}
	return NewFromBitSet(id, block, length, bits)
}

// NewFromBitSet creates a record from an existing bit vector.
// The bit vector is cloned.
func NewFromBitSet(id, block string, length uint, bits *bitset.BitSet) (*Record, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if length == 0 {
		return nil, ErrInvalidLength
	}
	if bits == nil {
		bits = bitset.New(length)
	}
	if last, ok := lastSet(bits); ok && last >= length {
		return nil, &ErrPositionOutOfRange{Position: last, Length: length}
	}
	raw := bits.Clone()
	return &Record{
		id:     id,
		block:  block,
		length: length,
		raw:    raw,
		bits:   raw,
	}, nil
}

// ID returns the opaque record identifier.
func (r *Record) ID() string { return r.id }

// Party returns the identifier of the owning party, or "" if unowned.
func (r *Record) Party() string { return r.party }

// Block returns the blocking key.
func (r *Record) Block() string { return r.block }

// Length returns the fixed encoding length in bits.
func (r *Record) Length() uint { return r.length }

// Encoding returns the current encoding. Callers must not modify it.
func (r *Record) Encoding() *bitset.BitSet { return r.bits }

// Original returns the encoding the record was created with.
// Callers must not modify it.
func (r *Record) Original() *bitset.BitSet { return r.raw }

// Cardinality returns the number of set bits in the current encoding.
func (r *Record) Cardinality() uint { return r.bits.Count() }

// String implements fmt.Stringer.
func (r *Record) String() string {
	if r.party == "" {
		return r.id
	}
	return r.party + "/" + r.id
}

func (r *Record) setEncoding(bits *bitset.BitSet) error {
	if last, ok := lastSet(bits); ok && last >= r.length {
		return &ErrPositionOutOfRange{Position: last, Length: r.length}
	}
	r.bits = bits
	return nil
}

func lastSet(b *bitset.BitSet) (uint, bool) {
	if b == nil || b.None() {
		return 0, false
	}
	var last uint
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		last = i
	}
	return last, true
}
