// Package render writes decoded tables for people and for other programs.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"
)

// Output formats understood by Write.
const (
	FormatPretty  = "pretty"
	FormatJSON    = "json"
	FormatMsgPack = "msgpack"
)

// Formats returns the known format names.
func Formats() []string {
	return []string{FormatPretty, FormatJSON, FormatMsgPack}
}

// ValidFormat reports whether name is one of Formats.
func ValidFormat(name string) bool {
	for _, f := range Formats() {
		if f == name {
			return true
		}
	}
	return false
}

// Options tune the pretty renderer. The machine formats ignore them.
type Options struct {
	// Color enables ANSI styling.
	Color bool
	// Header styles the first row as a header.
	Header bool
}

// Write renders table to w in the named format.
func Write(w io.Writer, format string, table [][]string, opts Options) error {
	switch format {
	case FormatPretty:
		return Pretty(w, table, opts)
	case FormatJSON:
		return JSON(w, table)
	case FormatMsgPack:
		return MsgPack(w, table)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// JSON writes table as a single JSON array of arrays followed by a newline.
func JSON(w io.Writer, table [][]string) error {
	if table == nil {
		table = [][]string{}
	}
	return json.NewEncoder(w).Encode(table)
}

// MsgPack writes table as a MessagePack array of string arrays.
func MsgPack(w io.Writer, table [][]string) error {
	return msgpack.NewEncoder(w).Encode(table)
}

var controlEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

// Pretty writes table as space-aligned columns. Widths are measured in
// terminal cells so wide characters line up. Line breaks and tabs inside
// cells are shown escaped to keep one row per line.
func Pretty(w io.Writer, table [][]string, opts Options) error {
	cells := make([][]string, len(table))
	var widths []int
	for i, row := range table {
		cells[i] = make([]string, len(row))
		for j, cell := range row {
			s := controlEscaper.Replace(cell)
			cells[i][j] = s
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			if n := runewidth.StringWidth(s); n > widths[j] {
				widths[j] = n
			}
		}
	}

	header := color.New(color.FgCyan, color.Bold)
	if opts.Color {
		header.EnableColor()
	} else {
		header.DisableColor()
	}

	var b strings.Builder
	for i, row := range cells {
		b.Reset()
		for j, s := range row {
			if j > 0 {
				b.WriteString("  ")
			}
			if j < len(row)-1 {
				s = runewidth.FillRight(s, widths[j])
			}
			if i == 0 && opts.Header {
				s = header.Sprint(s)
			}
			b.WriteString(s)
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
