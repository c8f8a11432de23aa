// Package snapshot writes protocol results as self-describing frames.
//
// A frame is a fixed header followed by the encoded payload:
//
//	magic "PPRL" | version u16 | compression u8 | codec name length u8 |
//	codec name | uncompressed size u32 | CRC32C of stored payload u32 | payload
//
// The codec name selects the decoder on read, so frames written with any
// built-in codec can be read back without configuration. Integers are little
// endian.
package snapshot
