package snapshot

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a snapshot payload is compressed. The values
// are stored in snapshot files and must not change.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2

	// CompressionBG4LZ4 groups the bytes of each 4-byte word by position
	// before LZ4. Float32 data with similar exponents compresses far
	// better this way.
	CompressionBG4LZ4 Compression = 3
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	case CompressionBG4LZ4:
		return "bg4_lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses the name returned by Compression.String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	case "bg4_lz4":
		return CompressionBG4LZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// MarshalText implements encoding.TextMarshaler so the tag reads as a
// name in YAML config files.
func (c Compression) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(text []byte) error {
	parsed, err := ParseCompression(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// errIncompressible is returned when the compressed form would not be
// smaller than the input. The caller stores the payload uncompressed.
var errIncompressible = errors.New("payload is incompressible")

// compress returns data compressed with c, together with the tag that was
// actually applied. Incompressible data falls back to CompressionNone.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		out, err = compressLZ4(data)
	case CompressionZstd:
		out, err = compressZstd(data)
	case CompressionBG4LZ4:
		out, err = compressLZ4(bg4Transpose(data))
	default:
		return nil, 0, fmt.Errorf("%w: %v", ErrUnknownCompression, c)
	}

	if errors.Is(err, errIncompressible) {
		return data, CompressionNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return out, c, nil
}

// lz4MaxRatio bounds how far an LZ4 block can expand: each byte of a
// match length extension adds at most 255 bytes of output.
const lz4MaxRatio = 255

// decompress reverses compress. size must be the exact uncompressed length;
// it is checked against what the payload can possibly expand to before
// anything is allocated.
func decompress(data []byte, c Compression, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrCorrupt, size)
	}
	switch c {
	case CompressionNone:
		if len(data) != size {
			return nil, fmt.Errorf("%w: stored %d bytes, expected %d", ErrCorrupt, len(data), size)
		}
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data, size)
	case CompressionZstd:
		return decompressZstd(data, size)
	case CompressionBG4LZ4:
		grouped, err := decompressLZ4(data, size)
		if err != nil {
			return nil, err
		}
		return bg4Untranspose(grouped), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompression, c)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock reports 0 for incompressible input.
	if n == 0 || n >= len(data) {
		return nil, errIncompressible
	}
	return dst[:n], nil
}

func decompressLZ4(data []byte, size int) ([]byte, error) {
	if size > len(data)*lz4MaxRatio {
		return nil, fmt.Errorf("%w: %d lz4 bytes cannot expand to %d", ErrCorrupt, len(data), size)
	}
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lz4 produced %d bytes, expected %d", ErrCorrupt, n, size)
	}
	return dst, nil
}

// zstd encoders and decoders are safe for concurrent use and costly to
// build, so one of each is shared.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	out := zstdEncoder.EncodeAll(data, nil)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

func decompressZstd(data []byte, size int) ([]byte, error) {
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: zstd produced %d bytes, expected %d", ErrCorrupt, len(out), size)
	}
	return out, nil
}

// bg4Transpose moves byte i of every 4-byte word into plane i. Trailing
// bytes that do not fill a word are copied unchanged.
func bg4Transpose(data []byte) []byte {
	words := len(data) / 4
	out := make([]byte, len(data))
	for i := 0; i < words; i++ {
		out[i] = data[4*i]
		out[words+i] = data[4*i+1]
		out[2*words+i] = data[4*i+2]
		out[3*words+i] = data[4*i+3]
	}
	copy(out[4*words:], data[4*words:])
	return out
}

func bg4Untranspose(data []byte) []byte {
	words := len(data) / 4
	out := make([]byte, len(data))
	for i := 0; i < words; i++ {
		out[4*i] = data[i]
		out[4*i+1] = data[words+i]
		out[4*i+2] = data[2*words+i]
		out[4*i+3] = data[3*words+i]
	}
	copy(out[4*words:], data[4*words:])
	return out
}
