// Package config loads ptaview configuration.
//
// Configuration comes from a single YAML file named by the --config flag
// or, when the flag is absent, the PTAVIEW_CONFIG environment variable.
// There is no discovery: with neither set, Default is used unchanged.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ssungk/sharedarray/pkg/buf"
	"github.com/ssungk/sharedarray/pkg/snapshot"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "PTAVIEW_CONFIG"

// Config is the ptaview configuration.
type Config struct {
	Log LogConfig `yaml:"log"`

	// Element is the element type name used when a command is not given
	// --element. Default: u8
	Element string `yaml:"element"`

	Snapshot SnapshotConfig `yaml:"snapshot"`
	Buffer   BufferConfig   `yaml:"buffer"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `yaml:"level"`

	// Format is text or json. Default: text
	Format string `yaml:"format"`
}

// SnapshotConfig configures snapshot writing.
type SnapshotConfig struct {
	// Compression is none, lz4, zstd or bg4_lz4. Default: zstd
	Compression snapshot.Compression `yaml:"compression"`
}

// BufferConfig configures Storage allocation.
type BufferConfig struct {
	// MapThreshold is the smallest allocation in bytes served by an
	// anonymous memory mapping instead of the heap. Values below the
	// largest pool tier are raised to it.
	MapThreshold int `yaml:"map_threshold"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Element: "u8",
		Snapshot: SnapshotConfig{
			Compression: snapshot.CompressionZstd,
		},
		Buffer: BufferConfig{
			MapThreshold: buf.MapThreshold(),
		},
	}
}

// Load reads the file at path over the defaults. An empty path falls back
// to PTAVIEW_CONFIG; if that is unset too, Default is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that yaml decoding cannot.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Element == "" {
		return fmt.Errorf("element must not be empty")
	}
	if c.Buffer.MapThreshold < 0 {
		return fmt.Errorf("buffer.map_threshold must not be negative, got %d", c.Buffer.MapThreshold)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds the slog logger described by l, writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
