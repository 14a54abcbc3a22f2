// Package config loads the swiftdsv command's settings from a TOML file.
// Every setting is optional; missing keys keep their defaults and command
// line flags override whatever the file says.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/oleg578/swiftdsv/internal/logging"
	"github.com/oleg578/swiftdsv/internal/render"
)

// File holds all settings read from a configuration file.
type File struct {
	// Decoder is handed to swiftdsv.OptionsFromMap untouched so that the
	// decoder, not this package, decides which values are acceptable.
	Decoder map[string]any `toml:"decoder"`
	Output  OutputConfig   `toml:"output"`
	Log     LogConfig      `toml:"log"`

	// Undecoded lists keys present in the file that no setting consumed.
	Undecoded []string `toml:"-"`
}

// OutputConfig controls how decoded tables are read and rendered.
type OutputConfig struct {
	// Format is one of pretty, json or msgpack (default: pretty)
	Format string `toml:"format"`

	// Encoding is the character set of input documents (default: utf-8)
	Encoding string `toml:"encoding"`

	// Header highlights the first row in pretty output (default: false)
	Header bool `toml:"header"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (default: info)
	Level string `toml:"level"`

	// Format is text or json (default: text)
	Format string `toml:"format"`
}

// Default returns the settings used when no file is given.
func Default() *File {
	return &File{
		Output: OutputConfig{
			Format:   render.FormatPretty,
			Encoding: "utf-8",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path on top of the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	for _, key := range meta.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, key.String())
	}
	sort.Strings(cfg.Undecoded)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks names that are not validated elsewhere.
func (c *File) Validate() error {
	var errs []string

	if !render.ValidFormat(c.Output.Format) {
		errs = append(errs, fmt.Sprintf("output.format (%q) must be one of %s", c.Output.Format, strings.Join(render.Formats(), ", ")))
	}
	if c.Output.Encoding == "" {
		errs = append(errs, "output.encoding must not be empty")
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Sprintf("log.level (%q) must be debug, info, warn or error", c.Log.Level))
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Sprintf("log.format (%q) must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
