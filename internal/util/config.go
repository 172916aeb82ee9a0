package util

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Configuration carries the interpreter's tunables: build metadata from
// ldflags, the safety limits, and logging defaults. CLI flags override
// whatever the optional config file sets.
type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	RootPath string `toml:"root_path"`
	DebugAST bool   `toml:"debug_ast"`

	MaxCallDepth      int `toml:"max_call_depth"`
	MaxLoopIterations int `toml:"max_loop_iterations"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// LoadConfigFile overlays settings from a TOML file onto the receiver.
// Unknown keys are rejected so that a typo does not silently fall back to a
// default limit.
func (c *Configuration) LoadConfigFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}
