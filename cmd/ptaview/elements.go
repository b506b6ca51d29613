package main

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ssungk/sharedarray/pkg/array"
	"github.com/ssungk/sharedarray/pkg/linmath"
	"github.com/ssungk/sharedarray/pkg/snapshot"
)

// element binds an element type name to the generic operations the
// commands run on arrays of that type.
type element struct {
	name     string
	size     int
	format   string
	inspect  func(w io.Writer, data []byte, req viewRequest) error
	snapshot func(data []byte, c snapshot.Compression) (*snapshot.Envelope, error)
	restore  func(env *snapshot.Envelope) (state string, raw []byte, err error)
}

var elements = map[string]*element{}

func register[T any](name string) {
	elements[name] = &element{
		name:   name,
		size:   int(reflect.TypeFor[T]().Size()),
		format: formatOf[T](),
		inspect: func(w io.Writer, data []byte, req viewRequest) error {
			return inspect[T](w, name, data, req)
		},
		snapshot: func(data []byte, c snapshot.Compression) (*snapshot.Envelope, error) {
			a, err := array.FromBytes[T](data, 1)
			if err != nil {
				return nil, err
			}
			defer a.Release()
			return snapshot.Encode[T](name, a, c)
		},
		restore: restore[T],
	}
}

func init() {
	register[int8]("i8")
	register[uint8]("u8")
	register[int16]("i16")
	register[uint16]("u16")
	register[int32]("i32")
	register[uint32]("u32")
	register[int64]("i64")
	register[uint64]("u64")
	register[float32]("f32")
	register[float64]("f64")
	register[linmath.Vec2f]("vec2f")
	register[linmath.Vec3f]("vec3f")
	register[linmath.Vec4f]("vec4f")
	register[linmath.Vec2d]("vec2d")
	register[linmath.Vec3d]("vec3d")
	register[linmath.Vec4d]("vec4d")
	register[linmath.Mat3f]("mat3f")
	register[linmath.Mat3d]("mat3d")
	register[linmath.Mat4f]("mat4f")
	register[linmath.Mat4d]("mat4d")
}

// formatOf asks an empty array of T for the format code its views carry.
func formatOf[T any]() string {
	a := array.Make[T](0)
	defer a.Release()
	v, err := a.ExportView(array.ViewFormat)
	if err != nil {
		return ""
	}
	defer v.Release()
	return v.Format
}

func lookupElement(name string) (*element, error) {
	e, ok := elements[name]
	if !ok {
		return nil, fmt.Errorf("unknown element %q (known: %s)", name, strings.Join(elementNames(), ", "))
	}
	return e, nil
}

func elementNames() []string {
	names := make([]string, 0, len(elements))
	for name := range elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// restore rebuilds the snapshot as an array of T and returns its raw
// bytes. A null array has no bytes at all.
func restore[T any](env *snapshot.Envelope) (string, []byte, error) {
	a, err := snapshot.Restore[T](env)
	if err != nil {
		return "", nil, err
	}
	defer a.Release()

	var state string
	switch {
	case a.IsNull():
		state = "null"
	case a.IsEmpty():
		state = "empty"
	default:
		state = fmt.Sprintf("%d elements", a.Len())
	}
	return state, a.Bytes(), nil
}

func runElements(a *app, args []string) error {
	flagSet := pflag.NewFlagSet("elements", pflag.ContinueOnError)
	if ok, err := a.parseFlags(flagSet, args); !ok {
		return err
	}

	for _, name := range elementNames() {
		e := elements[name]
		fmt.Fprintf(a.stdout, "%-6s size=%-3d format=%s\n", e.name, e.size, e.format)
	}
	return nil
}
