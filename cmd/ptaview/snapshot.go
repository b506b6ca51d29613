package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/ssungk/sharedarray/pkg/snapshot"
)

func runSnapshot(a *app, args []string) error {
	var (
		elementName string
		file        string
		out         string
		compression = a.cfg.Snapshot.Compression
	)

	flagSet := pflag.NewFlagSet("snapshot", pflag.ContinueOnError)
	flagSet.StringVar(&elementName, "element", a.cfg.Element, "element type of the raw file")
	flagSet.StringVar(&file, "file", "", "raw native-endian array file")
	flagSet.StringVar(&out, "out", "", "snapshot file to write")
	flagSet.Var(&compressionValue{&compression}, "compression", "none, lz4, zstd or bg4_lz4")
	if ok, err := a.parseFlags(flagSet, args); !ok {
		return err
	}
	if file == "" || out == "" {
		return fmt.Errorf("snapshot: --file and --out are required")
	}

	e, err := lookupElement(elementName)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	env, err := e.snapshot(data, compression)
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", e.name, err)
	}
	if env.Compression != compression {
		slog.Info("Payload stored uncompressed", "requested", compression.String(), "bytes", env.Size)
	}

	if err := writeFile(out, func(w *bufio.Writer) error { return snapshot.Write(w, env) }); err != nil {
		return err
	}

	slog.Info("Snapshot written", "out", out, "element", e.name,
		"size", env.Size, "stored", len(env.Payload), "compression", env.Compression.String(), "digest", env.Digest.String())
	return nil
}

func runRestore(a *app, args []string) error {
	var in, out string

	flagSet := pflag.NewFlagSet("restore", pflag.ContinueOnError)
	flagSet.StringVar(&in, "in", "", "snapshot file to read")
	flagSet.StringVar(&out, "out", "", "raw file to write")
	if ok, err := a.parseFlags(flagSet, args); !ok {
		return err
	}
	if in == "" || out == "" {
		return fmt.Errorf("restore: --in and --out are required")
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	env, err := snapshot.Read(bufio.NewReader(f))
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}

	e, err := lookupElement(env.Element)
	if err != nil {
		return err
	}
	state, raw, err := e.restore(env)
	if err != nil {
		return fmt.Errorf("restore %s: %w", in, err)
	}

	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s %s\n", e.name, state)
	slog.Info("Snapshot restored", "in", in, "out", out, "element", e.name, "state", state)
	return nil
}

// writeFile writes path through a buffered writer, removing the file if
// fill fails.
func writeFile(path string, fill func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = fill(w)
	if err == nil {
		err = w.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

// compressionValue adapts snapshot.Compression to pflag.Value.
type compressionValue struct {
	c *snapshot.Compression
}

func (v *compressionValue) String() string {
	if v.c == nil {
		return snapshot.CompressionNone.String()
	}
	return v.c.String()
}

func (v *compressionValue) Set(s string) error {
	return v.c.UnmarshalText([]byte(s))
}

func (v *compressionValue) Type() string {
	return "compression"
}
