// ptaview ingests raw native-endian array files, describes the zero-copy
// views they export, and converts them to and from snapshots.
//
// Usage:
//
//	ptaview [--config file] [--log-level level] <command> [flags]
//
// Commands: inspect, snapshot, restore, elements.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/ssungk/sharedarray/pkg/buf"
	"github.com/ssungk/sharedarray/pkg/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every command.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(a *app, args []string) error
}

var commands = []command{
	{"inspect", "ingest a raw file and describe the view it exports", runInspect},
	{"snapshot", "store a raw file as a snapshot", runSnapshot},
	{"restore", "rebuild a snapshot and write its raw bytes", runRestore},
	{"elements", "list the element type names", runElements},
}

func run(args []string, stdout, stderr io.Writer) error {
	var configPath string
	var logLevel string

	flagSet := pflag.NewFlagSet("ptaview", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&logLevel, "log-level", "", "override log.level from the config")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return errors.New("missing command")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	buf.SetMapThreshold(cfg.Buffer.MapThreshold)
	slog.Debug("Config loaded", "path", configPath, "element", cfg.Element, "mapThreshold", buf.MapThreshold())

	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}
	for _, c := range commands {
		if c.name == rest[0] {
			return c.run(a, rest[1:])
		}
	}
	return fmt.Errorf("unknown command %q", rest[0])
}

// parseFlags parses a command's flags, printing its usage on --help.
// It reports false when the command should return without running.
func (a *app) parseFlags(flagSet *pflag.FlagSet, args []string) (bool, error) {
	flagSet.SetOutput(a.stderr)
	flagSet.BoolP("help", "h", false, "show help")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			flagSet.PrintDefaults()
			return false, nil
		}
		return false, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		flagSet.PrintDefaults()
		return false, nil
	}
	if flagSet.NArg() > 0 {
		return false, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	return true, nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `ptaview inspects raw array files through zero-copy views.

Usage:
  ptaview [flags] <command> [command flags]

Commands:
`)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nFlags:\n")
	flagSet.PrintDefaults()
}
