package array

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/ssungk/sharedarray/pkg/linmath"
)

// layout describes how an element type is stored and exported.
type layout struct {
	size   int                // bytes per element
	format string             // buffer format code, "" when the type has none
	scalar string             // format code of one component ("f" for Vec3f)
	matrix linmath.MatrixKind // non-zero for square matrix elements

	// mask has 0xff for value bytes and 0 for padding, nil when the
	// type has no padding.
	mask []byte
}

var layouts sync.Map // reflect.Type -> *layout

// layoutOf returns the cached layout of T. Element types must be plain
// values: a type that holds pointers, strings, slices or interfaces
// cannot be reinterpreted as bytes and panics here.
func layoutOf[T any]() *layout {
	typ := reflect.TypeFor[T]()
	if l, ok := layouts.Load(typ); ok {
		return l.(*layout)
	}

	if typ.Size() == 0 {
		panic(fmt.Sprintf("array: element type %v has zero size", typ))
	}
	if hasPointers(typ) {
		panic(fmt.Sprintf("array: element type %v contains pointers", typ))
	}

	var zero T
	l := &layout{size: int(typ.Size()), mask: paddingMask(typ)}
	if kind, ok := linmath.KindOf(zero); ok {
		l.matrix = kind
		l.format = kind.Format()
		l.scalar = kind.Format()
	} else {
		l.format, l.scalar = formatOf(zero, typ)
	}

	actual, _ := layouts.LoadOrStore(typ, l)
	return actual.(*layout)
}

// formatOf returns the struct-module format code of a scalar or vector
// element and of its component.
func formatOf(v any, typ reflect.Type) (format, scalar string) {
	switch v.(type) {
	case linmath.Vec2f:
		return "2f", "f"
	case linmath.Vec3f:
		return "3f", "f"
	case linmath.Vec4f:
		return "4f", "f"
	case linmath.Vec2d:
		return "2d", "d"
	case linmath.Vec3d:
		return "3d", "d"
	case linmath.Vec4d:
		return "4d", "d"
	}

	switch typ.Kind() {
	case reflect.Int8:
		format = "b"
	case reflect.Uint8:
		format = "B"
	case reflect.Int16:
		format = "h"
	case reflect.Uint16:
		format = "H"
	case reflect.Int32:
		format = "i"
	case reflect.Uint32:
		format = "I"
	case reflect.Int64:
		format = "q"
	case reflect.Uint64:
		format = "Q"
	case reflect.Float32:
		format = "f"
	case reflect.Float64:
		format = "d"
	}
	return format, format
}

func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.Interface, reflect.String:
		return true
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// paddingMask marks the bytes of typ that hold field values. It returns
// nil when every byte does.
func paddingMask(typ reflect.Type) []byte {
	mask := make([]byte, typ.Size())
	markValueBytes(mask, typ, 0)
	for _, b := range mask {
		if b == 0 {
			return mask
		}
	}
	return nil
}

func markValueBytes(mask []byte, typ reflect.Type, off uintptr) {
	switch typ.Kind() {
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			markValueBytes(mask, f.Type, off+f.Offset)
		}
	case reflect.Array:
		elem := typ.Elem()
		for i := 0; i < typ.Len(); i++ {
			markValueBytes(mask, elem, off+uintptr(i)*elem.Size())
		}
	default:
		for i := uintptr(0); i < typ.Size(); i++ {
			mask[off+i] = 0xff
		}
	}
}
