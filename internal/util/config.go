package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

type Configuration struct {
	Version   string `toml:"-" yaml:"-"`
	BuildDate string `toml:"-" yaml:"-"`
	Commit    string `toml:"-" yaml:"-"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogFile  string `toml:"log_file" yaml:"log_file"`
	// Mode is the isolation mode of protected regions: process or goroutine.
	Mode string `toml:"mode" yaml:"mode"`
	// Color enables coloured reports when stdout is a terminal.
	Color   bool          `toml:"color" yaml:"color"`
	Journal JournalConfig `toml:"journal" yaml:"journal"`
}

// JournalConfig selects the database caught regions are recorded in. An empty
// Driver disables the journal.
type JournalConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	DSN    string `toml:"dsn" yaml:"dsn"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel: "none",
		Mode:     "process",
		Color:    true,
	}
}

// LoadConfiguration reads a TOML or YAML file, chosen by extension, over the
// defaults. Unknown keys are errors.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField())
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config: %s: unsupported format, want .toml or .yaml", path)
	}
	return cfg, nil
}
