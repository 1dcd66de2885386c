package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression defines the compression algorithm used for the payload.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// lz4MaxRatio bounds the expansion of an LZ4 block: every input byte
// yields at most 255 output bytes.
const lz4MaxRatio = 255

// ZSTD encoder pool
var zstdEncoderPool sync.Pool

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// newZstdDecoder returns a single-threaded decoder that refuses frames
// larger than maxSize.
func newZstdDecoder(maxSize int) (*zstd.Decoder, error) {
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(maxSize)),
	)
}

// compress returns the stored payload and the compression actually used.
func compress(raw []byte, c Compression) ([]byte, Compression, error) {
	if c == CompressionNone || len(raw) == 0 {
		return raw, CompressionNone, nil
	}

	var (
		out []byte
		err error
	)
	switch c {
	case CompressionLZ4:
		out = make([]byte, lz4.CompressBlockBound(len(raw)))
		var n int
		n, err = lz4.CompressBlock(raw, out, nil)
		out = out[:n]
	case CompressionZSTD:
		var enc *zstd.Encoder
		enc, err = getZstdEncoder()
		if err == nil {
			out = enc.EncodeAll(raw, nil)
			zstdEncoderPool.Put(enc)
		}
	default:
		return nil, c, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
	if err != nil {
		return nil, c, err
	}

	// Incompressible or not worth it.
	if len(out) == 0 || float64(len(out)) > float64(len(raw))*0.9 {
		return raw, CompressionNone, nil
	}
	return out, c, nil
}

func decompress(stored []byte, c Compression, rawSize int) ([]byte, error) {
	if c == CompressionNone {
		if len(stored) != rawSize {
			return nil, fmt.Errorf("%w: stored size %d, want %d", ErrCorrupt, len(stored), rawSize)
		}
		return stored, nil
	}
	if (c == CompressionLZ4 || c == CompressionZSTD) && (rawSize == 0 || len(stored) == 0) {
		return nil, fmt.Errorf("%w: empty %s payload", ErrCorrupt, c)
	}

	switch c {
	case CompressionLZ4:
		if rawSize > lz4MaxRatio*len(stored)+64 {
			return nil, fmt.Errorf("%w: raw size %d exceeds lz4 bound for %d bytes", ErrCorrupt, rawSize, len(stored))
		}
		raw := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: decompressed size %d, want %d", ErrCorrupt, n, rawSize)
		}
		return raw, nil

	case CompressionZSTD:
		dec, err := newZstdDecoder(rawSize)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		raw, err := dec.DecodeAll(stored, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if len(raw) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size %d, want %d", ErrCorrupt, len(raw), rawSize)
		}
		return raw, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}
