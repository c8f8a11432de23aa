package hash

import (
	"hash"
	"hash/crc32"
	"sort"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// SetSeed derives a seed from an unordered set of names.
// The result does not depend on the order of names.
func SetSeed(names []string) int64 {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	h := NewCRC32C()
	for _, n := range sorted {
		_, _ = h.Write([]byte(n))
		_, _ = h.Write([]byte{0})
	}
	lo := h.Sum32()

	// Second pass over the reversed list widens the seed to 64 bits.
	h.Reset()
	for i := len(sorted) - 1; i >= 0; i-- {
		_, _ = h.Write([]byte(sorted[i]))
		_, _ = h.Write([]byte{0})
	}
	return int64(uint64(h.Sum32())<<32 | uint64(lo))
}
