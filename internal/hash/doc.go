// Package hash provides CRC32-Castagnoli helpers.
//
// CRC32C is used for snapshot frame checksums and to derive deterministic
// seeds from participant sets in the reference re-encoder:
//
//	checksum := hash.CRC32C(data)
//	seed := hash.SetSeed([]string{"party-a", "party-b"})
package hash
