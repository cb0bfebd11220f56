// Package config loads yamill settings from a .yamill.toml file.
//
// A Config is a plain value: it is resolved once per run (defaults, then the
// file, then command-line flags) and handed to the driver. Nothing in the
// module keeps settings in package-level state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Find.
const FileName = ".yamill.toml"

// Config holds the settings of one run.
type Config struct {
	// Fix rewrites files in place instead of reporting them.
	Fix bool `toml:"fix"`
	// DoubleCheck verifies that a rewrite loads to the same data before
	// writing it.
	DoubleCheck bool `toml:"double_check"`
	// Check forces report mode, overriding Fix.
	Check bool `toml:"check"`
	// Diff prints a unified diff for every file that needs changes.
	Diff bool `toml:"diff"`
	// Jobs limits the number of files processed concurrently.
	Jobs int `toml:"jobs"`
	// Extensions selects the files picked up when walking directories.
	Extensions []string `toml:"extensions"`
	// Exclude lists glob patterns matched against base names and slash
	// separated paths.
	Exclude []string `toml:"exclude"`
	// NoCache disables the formatted-file cache.
	NoCache bool `toml:"no_cache"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DoubleCheck: true,
		Jobs:        runtime.GOMAXPROCS(0),
		Extensions:  []string{".yaml", ".yml"},
	}
}

// Rewrite reports whether files are written back.
func (c Config) Rewrite() bool {
	return c.Fix && !c.Check
}

// Validate reports settings no run can use.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads the file at path, or the one Find locates from startDir when
// path is empty. Without a file it returns Default.
func Resolve(path, startDir string) (Config, string, error) {
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Config{}, "", err
		}
		if !ok {
			return Default(), "", nil
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}
