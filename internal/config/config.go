// Package config loads filekit's settings from defaults, config files, FILEKIT_* environment variables, and command-line flags, in increasing order
// of precedence.
//
// Config files are named config.yaml, config.yml or config.json and live in ~/.filekit (user) and ./.filekit (project). Both are read if present; the
// project file wins.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/codalotl/filekit/internal/diff"
	"github.com/codalotl/filekit/internal/termcolor"
)

// Dir is the name of the config directory in the home and working directories.
const Dir = ".filekit"

// EnvPrefix prefixes environment variables, e.g. FILEKIT_CONTEXT_LINES.
const EnvPrefix = "FILEKIT"

// Config is the resolved configuration.
type Config struct {
	Format         string `mapstructure:"format"`           // unified, context or old
	ContextLines   int    `mapstructure:"context_lines"`    // Unchanged lines around each change.
	Color          string `mapstructure:"color"`            // auto, always or never
	ChunkSize      int    `mapstructure:"chunk_size"`       // Bytes read per step when tailing.
	TailLines      int    `mapstructure:"tail_lines"`       // Default line count for tail.
	MaxDiffSize    int64  `mapstructure:"-"`                // Larger files are not diffed. 0 disables the limit.
	DiffBlockLines int    `mapstructure:"diff_block_lines"` // Diff files in blocks of this many lines. 0 diffs whole files.
	Verbose        bool   `mapstructure:"verbose"`          // Print status lines.
	LogFile        string `mapstructure:"log_file"`         // Debug log destination; empty disables it.
}

var defaults = map[string]any{
	"format":           "unified",
	"context_lines":    3,
	"color":            "auto",
	"chunk_size":       512,
	"tail_lines":       10,
	"max_diff_size":    10_000_000,
	"diff_block_lines": 0,
	"verbose":          true,
	"log_file":         "",
}

// FlagKeys maps command-line flag names to config keys. Flags that are not registered on a command are ignored.
var FlagKeys = map[string]string{
	"format":      "format",
	"context":     "context_lines",
	"color":       "color",
	"chunk-size":  "chunk_size",
	"lines":       "tail_lines",
	"max-size":    "max_diff_size",
	"block-lines": "diff_block_lines",
	"log-file":    "log_file",
}

// LoadOptions say where to look for configuration.
type LoadOptions struct {
	File    string         // Explicit config file. When set, the home and project files are not read, and File must exist.
	Home    string         // Home directory; empty means os.UserHomeDir.
	WorkDir string         // Working directory; empty means os.Getwd.
	Flags   *pflag.FlagSet // Flags that were explicitly set override everything else.
}

// Load resolves and validates the configuration.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	} else {
		dirs, err := searchDirs(opts)
		if err != nil {
			return Config{}, err
		}
		for _, dir := range dirs {
			if err := mergeDir(v, dir); err != nil {
				return Config{}, err
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	// Sizes may be written with units ("10MB", "512 KiB").
	size, err := humanize.ParseBytes(v.GetString("max_diff_size"))
	if err != nil {
		return Config{}, fmt.Errorf("config: max_diff_size: %w", err)
	}
	if size > math.MaxInt64 {
		return Config{}, fmt.Errorf("config: max_diff_size %d is too large", size)
	}
	cfg.MaxDiffSize = int64(size)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// searchDirs returns the config directories in increasing order of precedence.
func searchDirs(opts LoadOptions) ([]string, error) {
	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err == nil {
			home = h
		}
	}
	wd := opts.WorkDir
	if wd == "" {
		w, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		wd = w
	}

	var dirs []string
	if home != "" {
		dirs = append(dirs, filepath.Join(home, Dir))
	}
	local := filepath.Join(wd, Dir)
	if len(dirs) == 0 || filepath.Clean(dirs[0]) != filepath.Clean(local) {
		dirs = append(dirs, local)
	}
	return dirs, nil
}

// mergeDir merges the first config file found in dir into v.
func mergeDir(v *viper.Viper, dir string) error {
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := diff.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: format: %w", err)
	}
	if _, err := termcolor.ParseMode(c.Color); err != nil {
		return fmt.Errorf("config: color: %w", err)
	}
	switch {
	case c.ContextLines < 0:
		return fmt.Errorf("config: context_lines must not be negative, got %d", c.ContextLines)
	case c.ChunkSize < 1:
		return fmt.Errorf("config: chunk_size must be at least 1, got %d", c.ChunkSize)
	case c.TailLines < 0:
		return fmt.Errorf("config: tail_lines must not be negative, got %d", c.TailLines)
	case c.MaxDiffSize < 0:
		return fmt.Errorf("config: max_diff_size must not be negative, got %d", c.MaxDiffSize)
	case c.DiffBlockLines < 0:
		return fmt.Errorf("config: diff_block_lines must not be negative, got %d", c.DiffBlockLines)
	}
	return nil
}

// DiffOptions returns the diff options for c, decorated with color. c must be valid.
func (c Config) DiffOptions(color termcolor.ColorPolicy) diff.Options {
	format, _ := diff.ParseFormat(c.Format)
	return diff.Options{
		Format:       format,
		ContextLines: c.ContextLines,
		Color:        color,
		MaxSize:      c.MaxDiffSize,
		BlockLines:   c.DiffBlockLines,
	}
}

// ColorMode returns the parsed color mode. c must be valid.
func (c Config) ColorMode() termcolor.Mode {
	m, _ := termcolor.ParseMode(c.Color)
	return m
}
