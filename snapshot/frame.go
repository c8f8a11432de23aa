package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/pprl/codec"
	"github.com/hupe1980/pprl/internal/hash"
)

var (
	frameMagic   = [4]byte{'P', 'P', 'R', 'L'}
	frameVersion = uint16(1)
)

// frameFixedLen excludes the variable codec name bytes.
const frameFixedLen = 4 + 2 + 1 + 1 + 4 + 4

var (
	// ErrInvalidMagic indicates data that is not a snapshot frame.
	ErrInvalidMagic = errors.New("invalid snapshot magic")
	// ErrUnsupportedVersion indicates a frame written by an incompatible version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	// ErrChecksumMismatch indicates a corrupted payload.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
	// ErrCorrupt indicates a truncated or undecodable frame.
	ErrCorrupt = errors.New("corrupt snapshot")
	// ErrUnknownCodec indicates a codec name that ByName does not know.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
	// ErrUnknownCompression indicates an unsupported compression.
	ErrUnknownCompression = errors.New("unknown snapshot compression")
)

// Header describes a decoded frame.
type Header struct {
	Version     uint16
	Codec       string
	Compression Compression
	Size        uint32
}

// Encode marshals v with c, compresses it and wraps it in a frame.
func Encode(v any, c codec.Codec, comp Compression) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) > math.MaxUint8 {
		return nil, fmt.Errorf("%w: name too long", ErrUnknownCodec)
	}

	raw, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return nil, fmt.Errorf("snapshot payload too large: %d bytes", len(raw))
	}

	payload, applied, err := compress(raw, comp)
	if err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}

	buf := make([]byte, 0, frameFixedLen+len(name)+len(payload))
	buf = append(buf, frameMagic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, frameVersion)
	buf = append(buf, byte(applied), byte(len(name)))
	buf = append(buf, name...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(raw)))
	buf = binary.LittleEndian.AppendUint32(buf, hash.CRC32C(payload))
	buf = append(buf, payload...)
	return buf, nil
}

// Decode verifies a frame and unmarshals its payload into v.
func Decode(data []byte, v any) (Header, error) {
	if len(data) < frameFixedLen {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	if [4]byte(data[0:4]) != frameMagic {
		return Header{}, ErrInvalidMagic
	}

	h := Header{
		Version:     binary.LittleEndian.Uint16(data[4:6]),
		Compression: Compression(data[6]),
	}
	if h.Version != frameVersion {
		return h, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	nameLen := int(data[7])
	off := 8
	if len(data) < frameFixedLen+nameLen {
		return h, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	h.Codec = string(data[off : off+nameLen])
	off += nameLen
	h.Size = binary.LittleEndian.Uint32(data[off : off+4])
	sum := binary.LittleEndian.Uint32(data[off+4 : off+8])
	payload := data[off+8:]

	if hash.CRC32C(payload) != sum {
		return h, ErrChecksumMismatch
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return h, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	raw, err := decompress(payload, h.Compression, int(h.Size))
	if err != nil {
		return h, err
	}
	if len(raw) != int(h.Size) {
		return h, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(raw), h.Size)
	}

	if err := c.Unmarshal(raw, v); err != nil {
		return h, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return h, nil
}
