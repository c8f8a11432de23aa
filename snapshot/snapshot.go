package snapshot

import (
	"context"
	"fmt"

	"github.com/hupe1980/pprl/blobstore"
	"github.com/hupe1980/pprl/codec"
)

// Writer encodes values as frames and stores them.
type Writer struct {
	store       blobstore.Store
	codec       codec.Codec
	compression Compression
}

// Option configures a Writer.
type Option func(*Writer)

// WithCodec sets the payload codec. If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(w *Writer) {
		if c == nil {
			c = codec.Default
		}
		w.codec = c
	}
}

// WithCompression sets the payload compression.
func WithCompression(c Compression) Option {
	return func(w *Writer) {
		w.compression = c
	}
}

// NewWriter creates a Writer that stores frames in store.
func NewWriter(store blobstore.Store, opts ...Option) *Writer {
	w := &Writer{
		store:       store,
		codec:       codec.Default,
		compression: CompressionZSTD,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write encodes v and stores it under name.
func (w *Writer) Write(ctx context.Context, name string, v any) error {
	data, err := Encode(v, w.codec, w.compression)
	if err != nil {
		return err
	}
	if err := w.store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("store snapshot %s: %w", name, err)
	}
	return nil
}

// Reader loads frames from a store.
type Reader struct {
	store blobstore.Store
}

// NewReader creates a Reader over store.
func NewReader(store blobstore.Store) *Reader {
	return &Reader{store: store}
}

// Read loads the frame stored under name and decodes it into v.
func (r *Reader) Read(ctx context.Context, name string, v any) (Header, error) {
	data, err := r.store.Get(ctx, name)
	if err != nil {
		return Header{}, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	h, err := Decode(data, v)
	if err != nil {
		return h, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return h, nil
}
