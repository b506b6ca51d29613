// Package snapshot stores arrays as self-describing files: the array's
// constructor arguments encoded as CBOR, optionally compressed and
// protected by a BLAKE3 digest.
package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/ssungk/sharedarray/pkg/array"
	"github.com/ssungk/sharedarray/pkg/codec"
)

// Version is the envelope version written by Encode.
const Version = 1

// Envelope is the stored form of one array.
type Envelope struct {
	Version     int         `cbor:"v"`
	Element     string      `cbor:"element"`
	ItemSize    int         `cbor:"itemsize"`
	Compression Compression `cbor:"compression"`
	Size        int         `cbor:"size"` // uncompressed payload length
	Digest      Digest      `cbor:"digest"`
	Payload     []byte      `cbor:"payload"`
}

// Reducer is implemented by array.Array and array.ConstArray.
type Reducer interface {
	Reduce() []any
}

// Encode captures src, whose elements are of type T, under the element
// name element. The requested compression is dropped when it would not
// shrink the payload.
func Encode[T any](element string, src Reducer, c Compression) (*Envelope, error) {
	raw, err := codec.Marshal(src.Reduce())
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	payload, applied, err := compress(raw, c)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Version:     Version,
		Element:     element,
		ItemSize:    itemSize[T](),
		Compression: applied,
		Size:        len(raw),
		Digest:      Sum(raw),
		Payload:     payload,
	}, nil
}

// Write encodes env to w.
func Write(w io.Writer, env *Envelope) error {
	return codec.NewEncoder(w).Encode(env)
}

// Read decodes one envelope from r.
func Read(r io.Reader) (*Envelope, error) {
	var env Envelope
	if err := codec.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return &env, nil
}

// Marshal returns the encoded form of env.
func Marshal(env *Envelope) ([]byte, error) {
	var b bytes.Buffer
	if err := Write(&b, env); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Args decompresses the payload, checks its digest and decodes the
// constructor arguments.
func (env *Envelope) Args() ([]any, error) {
	raw, err := decompress(env.Payload, env.Compression, env.Size)
	if err != nil {
		return nil, err
	}
	if got := Sum(raw); got != env.Digest {
		return nil, fmt.Errorf("%w: got %v, stored %v", ErrDigestMismatch, got, env.Digest)
	}
	var args []any
	if err := codec.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return args, nil
}

// Restore rebuilds the array stored in env. The element size of T must
// match the stored one.
func Restore[T any](env *Envelope) (*array.Array[T], error) {
	if want := itemSize[T](); env.ItemSize != want {
		return nil, fmt.Errorf("%w: stored %q with item size %d, requested %d",
			ErrElementMismatch, env.Element, env.ItemSize, want)
	}
	args, err := env.Args()
	if err != nil {
		return nil, err
	}
	return array.Rebuild[T](args)
}

func itemSize[T any]() int {
	return int(reflect.TypeFor[T]().Size())
}
