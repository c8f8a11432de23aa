package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/hupe1980/pprl/blobstore"
	"github.com/hupe1980/pprl/cluster"
	"github.com/hupe1980/pprl/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Clusters []cluster.Snapshot `json:"clusters"`
}

func samplePayload(n int) payload {
	p := payload{}
	for i := 0; i < n; i++ {
		p.Clusters = append(p.Clusters, cluster.Snapshot{
			Records: []string{fmt.Sprintf("A/e%d", i), fmt.Sprintf("B/e%d", i)},
		})
	}
	return p
}

func TestEncodeDecode(t *testing.T) {
	want := samplePayload(200)

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
			t.Run(c.Name()+"/"+comp.String(), func(t *testing.T) {
				data, err := Encode(want, c, comp)
				require.NoError(t, err)

				var got payload
				h, err := Decode(data, &got)
				require.NoError(t, err)

				assert.Equal(t, want, got)
				assert.Equal(t, c.Name(), h.Codec)
				assert.Equal(t, comp, h.Compression)
				assert.Equal(t, uint16(1), h.Version)
			})
		}
	}
}

func TestEncode_CompressionShrinksRepetitivePayload(t *testing.T) {
	p := samplePayload(500)

	plain, err := Encode(p, nil, CompressionNone)
	require.NoError(t, err)
	small, err := Encode(p, nil, CompressionZSTD)
	require.NoError(t, err)

	assert.Less(t, len(small), len(plain))
	assert.True(t, bytes.HasPrefix(plain, []byte("PPRL")))
}

func TestDecode_Errors(t *testing.T) {
	good, err := Encode(samplePayload(3), codec.JSON{}, CompressionNone)
	require.NoError(t, err)

	corrupt := func(f func(b []byte) []byte) []byte {
		b := append([]byte(nil), good...)
		return f(b)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", good[:5], ErrCorrupt},
		{"magic", corrupt(func(b []byte) []byte { b[0] = 'X'; return b }), ErrInvalidMagic},
		{"version", corrupt(func(b []byte) []byte { b[4] = 9; return b }), ErrUnsupportedVersion},
		{"checksum", corrupt(func(b []byte) []byte { b[len(b)-2] ^= 0xff; return b }), ErrChecksumMismatch},
		{"truncated name", corrupt(func(b []byte) []byte { b[7] = 200; return b[:20] }), ErrCorrupt},
		{"codec", corrupt(func(b []byte) []byte { copy(b[8:12], "xxxx"); return b }), ErrUnknownCodec},
		{"compression", corrupt(func(b []byte) []byte { b[6] = 7; return b }), ErrUnknownCompression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			_, err := Decode(tt.data, &p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestWriterReader(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w := NewWriter(store, WithCodec(codec.JSON{}), WithCompression(CompressionLZ4))
	want := samplePayload(10)
	require.NoError(t, w.Write(ctx, "runs/1.snap", want))

	var got payload
	h, err := NewReader(store).Read(ctx, "runs/1.snap", &got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "json", h.Codec)

	_, err = NewReader(store).Read(ctx, "runs/missing.snap", &got)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDecode_OversizedHeader(t *testing.T) {
	for _, comp := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(comp.String(), func(t *testing.T) {
			data, err := Encode(samplePayload(200), codec.JSON{}, comp)
			require.NoError(t, err)

			var p payload
			h, err := Decode(data, &p)
			require.NoError(t, err)
			require.Equal(t, comp, h.Compression)

			// The size field follows the "json" codec name and is not
			// covered by the checksum.
			off := 8 + len("json")
			binary.LittleEndian.PutUint32(data[off:off+4], math.MaxUint32)

			_, err = Decode(data, &p)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}
