package snapshot

import "errors"

var (
	ErrUnknownCompression = errors.New("unknown compression")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrCorrupt            = errors.New("corrupt snapshot payload")
	ErrDigestMismatch     = errors.New("snapshot digest mismatch")
	ErrElementMismatch    = errors.New("snapshot element does not match")
)
