package linmath

import (
	"fmt"
	"unsafe"
)

// MatrixKind identifies one of the supported square matrix layouts.
// The set is closed; the zero value is not a valid kind.
type MatrixKind uint8

const (
	KindMat3f MatrixKind = iota + 1
	KindMat3d
	KindMat4f
	KindMat4d
)

// Size returns the number of rows (and columns).
func (k MatrixKind) Size() int {
	switch k {
	case KindMat3f, KindMat3d:
		return 3
	case KindMat4f, KindMat4d:
		return 4
	default:
		return 0
	}
}

// ItemSize returns the byte width of one matrix component.
func (k MatrixKind) ItemSize() int {
	switch k {
	case KindMat3f, KindMat4f:
		return 4
	case KindMat3d, KindMat4d:
		return 8
	default:
		return 0
	}
}

// ByteSize returns the in-memory size of one matrix, taken from the
// matrix type's layout. It may exceed Size()*Size()*ItemSize() if the
// type carries padding.
func (k MatrixKind) ByteSize() int {
	switch k {
	case KindMat3f:
		return int(unsafe.Sizeof(Mat3f{}))
	case KindMat3d:
		return int(unsafe.Sizeof(Mat3d{}))
	case KindMat4f:
		return int(unsafe.Sizeof(Mat4f{}))
	case KindMat4d:
		return int(unsafe.Sizeof(Mat4d{}))
	default:
		return 0
	}
}

// Format returns the struct-module format code of one component.
func (k MatrixKind) Format() string {
	switch k.ItemSize() {
	case 4:
		return "f"
	case 8:
		return "d"
	default:
		return ""
	}
}

// Valid reports whether k is one of the defined kinds.
func (k MatrixKind) Valid() bool {
	return k >= KindMat3f && k <= KindMat4d
}

// String returns the short name used on the command line.
func (k MatrixKind) String() string {
	switch k {
	case KindMat3f:
		return "mat3f"
	case KindMat3d:
		return "mat3d"
	case KindMat4f:
		return "mat4f"
	case KindMat4d:
		return "mat4d"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// ParseMatrixKind parses a kind from its String form.
func ParseMatrixKind(name string) (MatrixKind, error) {
	switch name {
	case "mat3f":
		return KindMat3f, nil
	case "mat3d":
		return KindMat3d, nil
	case "mat4f":
		return KindMat4f, nil
	case "mat4d":
		return KindMat4d, nil
	default:
		return 0, fmt.Errorf("unknown matrix kind: %q", name)
	}
}

// KindOf returns the matrix kind of v's type, or false when v is not one
// of the matrix types.
func KindOf(v any) (MatrixKind, bool) {
	switch v.(type) {
	case Mat3f:
		return KindMat3f, true
	case Mat3d:
		return KindMat3d, true
	case Mat4f:
		return KindMat4f, true
	case Mat4d:
		return KindMat4d, true
	default:
		return 0, false
	}
}
