package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/gowergo/blobstore"
	"github.com/hupe1980/gowergo/codec"
)

// Compression selects the payload compression mode.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

var (
	magic         = [4]byte{'G', 'W', 'S', '0'}
	formatVersion = uint16(1)

	ErrInvalidMagic   = errors.New("snapshot: invalid magic")
	ErrInvalidVersion = errors.New("snapshot: unsupported format version")
)

// Option configures snapshot writing.
type Option func(*options)

type options struct {
	codec       codec.Codec
	compression Compression
	zstdLevel   zstd.EncoderLevel
}

// WithCodec overrides the payload codec. Nil selects codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression selects the compression mode. Default zstd.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithZstdLevel sets the zstd encoder level. Default SpeedDefault.
func WithZstdLevel(level zstd.EncoderLevel) Option {
	return func(o *options) { o.zstdLevel = level }
}

// Write encodes, compresses and stores the snapshot under the given name.
func Write(ctx context.Context, store blobstore.BlobStore, name string, s *Snapshot, opts ...Option) error {
	o := options{
		codec:       codec.Default,
		compression: CompressionZstd,
		zstdLevel:   zstd.SpeedDefault,
	}
	for _, opt := range opts {
		opt(&o)
	}

	payload, err := o.codec.Marshal(s)
	if err != nil {
		return fmt.Errorf("snapshot: failed to encode payload: %w", err)
	}

	payload, err = compress(payload, o.compression, o.zstdLevel)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	if err := binary.Write(&buf, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	buf.WriteByte(byte(o.compression))
	buf.WriteByte(byte(o.zstdLevel))

	codecName := o.codec.Name()
	buf.WriteByte(byte(len(codecName)))
	buf.WriteString(codecName)

	buf.Write(payload)

	return store.Put(ctx, name, buf.Bytes())
}

// Read loads and decodes the named snapshot.
func Read(ctx context.Context, store blobstore.BlobStore, name string) (*Snapshot, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	// 4 magic + 2 version + 1 compression + 1 level + 1 codec name length.
	if len(data) < 9 {
		return nil, ErrInvalidMagic
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}

	compression := Compression(data[6])
	nameLen := int(data[8])
	if len(data) < 9+nameLen {
		return nil, ErrInvalidMagic
	}
	codecName := string(data[9 : 9+nameLen])

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown codec %q", codecName)
	}

	payload, err := decompress(data[9+nameLen:], compression)
	if err != nil {
		return nil, err
	}

	var s Snapshot
	if err := c.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("snapshot: failed to decode payload: %w", err)
	}
	return &s, nil
}

func compress(data []byte, mode Compression, level zstd.EncoderLevel) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return data, nil

	case CompressionZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
		if err != nil {
			return nil, fmt.Errorf("snapshot: failed to create zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil

	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("snapshot: lz4 compression failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("snapshot: lz4 compression failed: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("snapshot: unknown compression mode %d", mode)
	}
}

func decompress(data []byte, mode Compression) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return data, nil

	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd decompression failed: %w", err)
		}
		return out, nil

	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("snapshot: lz4 decompression failed: %w", err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("snapshot: unknown compression mode %d", mode)
	}
}
