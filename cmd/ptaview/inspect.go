package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ssungk/sharedarray/pkg/array"
	"github.com/ssungk/sharedarray/pkg/linmath"
	"github.com/ssungk/sharedarray/pkg/snapshot"
)

// viewRequest is what inspect asks of the array it builds.
type viewRequest struct {
	flags    array.ViewFlags
	matrix   linmath.MatrixKind // non-zero to reinterpret as matrix blocks
	readOnly bool

	subrange     bool
	start, count int
}

var viewFlagNames = map[string]array.ViewFlags{
	"simple":   array.ViewSimple,
	"writable": array.ViewWritable,
	"format":   array.ViewFormat,
	"nd":       array.ViewND,
	"strides":  array.ViewStrides,
	"full_ro":  array.ViewFullRO,
	"full":     array.ViewFull,
}

// parseViewFlags ORs together a comma separated list of flag names.
func parseViewFlags(list string) (array.ViewFlags, error) {
	var flags array.ViewFlags
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		f, ok := viewFlagNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown view flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}

func runInspect(a *app, args []string) error {
	var (
		elementName string
		file        string
		flagList    string
		matrix      string
		req         viewRequest
	)

	flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	flagSet.StringVar(&elementName, "element", a.cfg.Element, "element type of the raw file")
	flagSet.StringVar(&file, "file", "", "raw native-endian array file")
	flagSet.StringVar(&flagList, "flags", "full_ro", "comma separated view flags: simple, writable, format, nd, strides, full_ro, full")
	flagSet.StringVar(&matrix, "matrix", "", "export as mat3f, mat3d, mat4f or mat4d blocks")
	flagSet.BoolVar(&req.readOnly, "readonly", false, "export through a read-only handle")
	flagSet.IntVar(&req.start, "start", 0, "first element of a subrange to digest")
	flagSet.IntVar(&req.count, "count", 0, "element count of a subrange to digest")
	if ok, err := a.parseFlags(flagSet, args); !ok {
		return err
	}
	if file == "" {
		return fmt.Errorf("inspect: --file is required")
	}

	e, err := lookupElement(elementName)
	if err != nil {
		return err
	}
	if req.flags, err = parseViewFlags(flagList); err != nil {
		return err
	}
	if matrix != "" {
		if req.matrix, err = linmath.ParseMatrixKind(matrix); err != nil {
			return err
		}
	}
	req.subrange = flagSet.Changed("start") || flagSet.Changed("count")

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	slog.Debug("Inspecting file", "file", file, "element", e.name, "bytes", len(data))
	return e.inspect(a.stdout, data, req)
}

// exporter is the part of Array and ConstArray inspect needs.
type exporter interface {
	Len() int
	RefCount() int
	SubrangeBytes(start, count int) []byte
	ExportView(flags array.ViewFlags) (*array.View, error)
	ExportMatrixView(kind linmath.MatrixKind, flags array.ViewFlags) (*array.View, error)
	Release()
}

func inspect[T any](w io.Writer, name string, data []byte, req viewRequest) error {
	a, err := array.FromBytes[T](data, 1)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", name, err)
	}

	var h exporter = a
	if req.readOnly {
		h = a.Const()
		a.Release()
	}
	defer h.Release()

	var v *array.View
	if req.matrix.Valid() {
		v, err = h.ExportMatrixView(req.matrix, req.flags)
	} else {
		v, err = h.ExportView(req.flags)
	}
	if err != nil {
		return fmt.Errorf("export %s view: %w", name, err)
	}

	fmt.Fprintf(w, "%-9s %s\n", "element", name)
	fmt.Fprintf(w, "%-9s %d\n", "elements", h.Len())
	fmt.Fprintf(w, "%-9s %d\n", "bytes", v.Len)
	fmt.Fprintf(w, "%-9s %d\n", "itemsize", v.ItemSize)
	fmt.Fprintf(w, "%-9s %s\n", "format", orDash(v.Format))
	fmt.Fprintf(w, "%-9s %t\n", "readonly", v.ReadOnly)
	fmt.Fprintf(w, "%-9s %d\n", "ndim", v.NDim)
	fmt.Fprintf(w, "%-9s %s\n", "shape", intsOrDash(v.Shape))
	fmt.Fprintf(w, "%-9s %s\n", "strides", intsOrDash(v.Strides))
	fmt.Fprintf(w, "%-9s %d\n", "refcount", h.RefCount())
	fmt.Fprintf(w, "%-9s %v\n", "blake3", snapshot.Sum(v.Bytes()))
	if req.subrange {
		sub := h.SubrangeBytes(req.start, req.count)
		fmt.Fprintf(w, "%-9s %d bytes %v\n", "subrange", len(sub), snapshot.Sum(sub))
	}

	return v.Release()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intsOrDash(values []int) string {
	if values == nil {
		return "-"
	}
	return fmt.Sprint(values)
}
