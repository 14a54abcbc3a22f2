package swiftdsv

import (
	"fmt"
	"unicode/utf8"
)

// Option keys recognised by OptionsFromMap.
const (
	OptionTextCharacter = "textCharacter"
	OptionItemDelimiter = "itemDelimiter"
	OptionLineDelimiter = "lineDelimiter"
)

const (
	defaultTextCharacter = `"`
	defaultItemDelimiter = ","
	defaultLineDelimiter = "\r\n"
)

// config is the snapshot of tokens a single Decode call works against.
type config struct {
	quote     string
	itemDelim string
	lineDelim string
}

func defaultConfig() config {
	return config{
		quote:     defaultTextCharacter,
		itemDelim: defaultItemDelimiter,
		lineDelim: defaultLineDelimiter,
	}
}

// withDefaults fills empty tokens, as found in a zero Decoder, with their defaults.
func (c config) withDefaults() config {
	if c.quote == "" {
		c.quote = defaultTextCharacter
	}
	if c.itemDelim == "" {
		c.itemDelim = defaultItemDelimiter
	}
	if c.lineDelim == "" {
		c.lineDelim = defaultLineDelimiter
	}
	return c
}

// Option configures a Decoder. Options validate their value and leave the
// configuration untouched when they fail.
type Option func(*config) error

// WithTextCharacter sets the quote/escape character. It must be exactly one character.
func WithTextCharacter(s string) Option {
	return func(c *config) error {
		if utf8.RuneCountInString(s) != 1 {
			return &ConfigError{Option: OptionTextCharacter, Reason: "must be exactly one character"}
		}
		c.quote = s
		return nil
	}
}

// WithItemDelimiter sets the separator between items of a line. It must not be empty.
func WithItemDelimiter(s string) Option {
	return func(c *config) error {
		if s == "" {
			return &ConfigError{Option: OptionItemDelimiter, Reason: "must not be empty"}
		}
		c.itemDelim = s
		return nil
	}
}

// WithLineDelimiter sets the separator between lines of a document. It must not be empty.
func WithLineDelimiter(s string) Option {
	return func(c *config) error {
		if s == "" {
			return &ConfigError{Option: OptionLineDelimiter, Reason: "must not be empty"}
		}
		c.lineDelim = s
		return nil
	}
}

var optionsByKey = []struct {
	key  string
	with func(string) Option
}{
	{OptionTextCharacter, WithTextCharacter},
	{OptionItemDelimiter, WithItemDelimiter},
	{OptionLineDelimiter, WithLineDelimiter},
}

// OptionsFromMap converts a loosely typed configuration object, such as a decoded
// TOML or JSON table, into options. Unrecognised keys are ignored and missing keys
// keep their default. A recognised key holding anything but a string fails with a
// *ConfigError. Value checks happen when the returned options are applied.
func OptionsFromMap(m map[string]any) ([]Option, error) {
	var opts []Option
	for _, o := range optionsByKey {
		v, ok := m[o.key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, &ConfigError{Option: o.key, Reason: fmt.Sprintf("must be a string, got %T", v)}
		}
		opts = append(opts, o.with(s))
	}
	return opts, nil
}
