// # SwiftDSV: A Delimiter-Separated-Value Decoder for Go
//
// SwiftDSV decodes a whole delimiter-separated document held in memory into a table of cells. The quote character, the item delimiter and the line delimiter are all configurable, so the same decoder reads CSV, TSV, semicolon files and documents split by arbitrary multi-character line terminators. The item delimiter is matched one character at a time.
//
// # Features
//
// - Single-pass decoding of quoted spans that contain delimiters, line breaks and doubled quote characters.
// - Validated configuration via `NewDecoder` options, `OptionsFromMap`, per-token setters and the atomic `Reconfigure`.
// - Structured error reporting via `ConfigError`, `ParseError`, `ErrConfiguration`, `ErrUnbalancedQuote` and `ErrNotString`.
// - A `swiftdsv` command under cmd/ that decodes files or stdin and renders the result as an aligned table, JSON or MessagePack.
// - Benchmarks, fuzz targets, and table-driven unit tests for regression protection.
//
// # Getting Started
//
//	dec, err := swiftdsv.NewDecoder(swiftdsv.WithItemDelimiter(";"))
//	if err != nil {
//		return err
//	}
//	table, err := dec.Decode("a;b\r\nc;d")
//
// A document ending with the line delimiter yields one extra row holding a single empty cell.
package swiftdsv
