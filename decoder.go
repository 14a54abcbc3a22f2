package swiftdsv

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrConfiguration is returned when a token fails validation at construction or update time.
	ErrConfiguration = errors.New("swiftdsv: invalid configuration")
	// ErrUnbalancedQuote is returned when an item holds a text character that is not part of a closed pair.
	ErrUnbalancedQuote = errors.New("swiftdsv: unbalanced text character")
	// ErrNotString is returned when DecodeValue receives anything other than a string.
	ErrNotString = errors.New("swiftdsv: document must be a string")

	errNilDecoder = errors.New("swiftdsv: decoder is nil")
	errNilReader  = errors.New("swiftdsv: reader source cannot be nil")
)

// ConfigError names the option that was rejected and why.
type ConfigError struct {
	Option string
	Reason string
}

// Error formats the rejected option and the reason it was rejected.
func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("swiftdsv: invalid %s: %s", e.Option, e.Reason)
}

// Unwrap returns ErrConfiguration so ConfigError matches it with errors.Is.
func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrConfiguration
}

// ParseError contains location information for decoding errors.
// Line and Item are 1-based indices of the offending item.
type ParseError struct {
	Line int
	Item int
	Err  error
}

// Error formats the parse error message with the stored line, item, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("swiftdsv: parse error on line %d, item %d: %v", e.Line, e.Item, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Decoder turns whole DSV documents into tables of cells. The zero value is
// ready to use and decodes with the default tokens.
//
// Decode reads the configuration once per call, so one Decoder may serve
// concurrent Decode calls. Setters and Reconfigure are not synchronised with
// in-flight decodes; callers that reconfigure a shared Decoder must serialise
// that themselves.
type Decoder struct {
	cfg config
}

// NewDecoder creates a Decoder with the default tokens (`"`, `,` and "\r\n")
// and then applies opts in order. The first failing option aborts construction.
func NewDecoder(opts ...Option) (*Decoder, error) {
	d := &Decoder{cfg: defaultConfig()}
	if err := d.Reconfigure(opts...); err != nil {
		return nil, err
	}
	return d, nil
}

// MustNewDecoder is like NewDecoder but panics if an option is invalid.
func MustNewDecoder(opts ...Option) *Decoder {
	d, err := NewDecoder(opts...)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Reconfigure applies opts atomically: either every option succeeds or the
// Decoder keeps its previous configuration.
func (d *Decoder) Reconfigure(opts ...Option) error {
	if d == nil {
		return errNilDecoder
	}
	next := d.cfg.withDefaults()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&next); err != nil {
			return err
		}
	}
	d.cfg = next
	return nil
}

// snapshot returns the tokens a decode would use. A nil Decoder has none.
func (d *Decoder) snapshot() config {
	if d == nil {
		return config{}
	}
	return d.cfg.withDefaults()
}

// TextCharacter returns the current quote/escape character, or "" for a nil Decoder.
func (d *Decoder) TextCharacter() string { return d.snapshot().quote }

// ItemDelimiter returns the current item separator, or "" for a nil Decoder.
func (d *Decoder) ItemDelimiter() string { return d.snapshot().itemDelim }

// LineDelimiter returns the current line separator, or "" for a nil Decoder.
func (d *Decoder) LineDelimiter() string { return d.snapshot().lineDelim }

// SetTextCharacter replaces the quote/escape character.
func (d *Decoder) SetTextCharacter(s string) error {
	return d.Reconfigure(WithTextCharacter(s))
}

// SetItemDelimiter replaces the item separator.
func (d *Decoder) SetItemDelimiter(s string) error {
	return d.Reconfigure(WithItemDelimiter(s))
}

// SetLineDelimiter replaces the line separator.
func (d *Decoder) SetLineDelimiter(s string) error {
	return d.Reconfigure(WithLineDelimiter(s))
}

// Decode splits document into lines and items and resolves the escapes of every
// item. Row i, cell j of the returned table is the j-th item of the i-th line.
// A document ending with the line delimiter yields a final row with one empty
// cell. A single malformed item fails the whole call with a *ParseError
// wrapping ErrUnbalancedQuote and no table is returned.
func (d *Decoder) Decode(document string) ([][]string, error) {
	if d == nil {
		return nil, errNilDecoder
	}
	cfg := d.snapshot()

	lines := splitLines(document, cfg)
	table := make([][]string, len(lines))
	for i, line := range lines {
		items := splitItems(line, cfg)
		row := make([]string, len(items))
		for j, item := range items {
			cell, err := decodeItem(item, cfg.quote)
			if err != nil {
				return nil, &ParseError{Line: i + 1, Item: j + 1, Err: err}
			}
			row[j] = cell
		}
		table[i] = row
	}
	return table, nil
}

// DecodeValue is Decode for dynamically typed input. Anything other than a
// string, nil included, fails with ErrNotString.
func (d *Decoder) DecodeValue(v any) ([][]string, error) {
	document, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrNotString, v)
	}
	return d.Decode(document)
}

// DecodeReader reads r to the end and decodes the collected text. The whole
// document is held in memory; there is no incremental decoding.
func (d *Decoder) DecodeReader(r io.Reader) ([][]string, error) {
	if d == nil {
		return nil, errNilDecoder
	}
	if r == nil {
		return nil, errNilReader
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.Decode(string(data))
}
