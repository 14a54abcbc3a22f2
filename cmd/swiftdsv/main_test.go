package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/oleg578/swiftdsv"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func decodeJSON(t *testing.T, out string) [][]string {
	t.Helper()
	var table [][]string
	if err := json.Unmarshal([]byte(out), &table); err != nil {
		t.Fatalf("output %q is not a JSON table: %v", out, err)
	}
	return table
}

func TestDecodeStdinJSON(t *testing.T) {
	out, _, err := runCLI(t, "1,2\r\n\"3,\"\"x\"\"\",4", "decode", "--format", "json")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	want := [][]string{{"1", "2"}, {"3,\"x\"", "4"}}
	if got := decodeJSON(t, out); !reflect.DeepEqual(got, want) {
		t.Fatalf("table = %#v, want %#v", got, want)
	}
}

func TestDecodeFlagsWithEscapes(t *testing.T) {
	out, _, err := runCLI(t, "a\tb\nc\td\n",
		"decode", "--format", "json", "--item-delimiter", `\t`, "--line-delimiter", `\n`)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	want := [][]string{{"a", "b"}, {"c", "d"}, {""}}
	if got := decodeJSON(t, out); !reflect.DeepEqual(got, want) {
		t.Fatalf("table = %#v, want %#v", got, want)
	}
}

func TestDecodeConfigFileAndFlagOverride(t *testing.T) {
	cfgPath := writeFile(t, "swiftdsv.toml", `
[decoder]
itemDelimiter = ";"
lineDelimiter = "\n"
textCharacter = "'"

[output]
format = "json"
`)
	doc := writeFile(t, "doc.txt", "a;b,c\n'p;q'")

	out, _, err := runCLI(t, "", "--config", cfgPath, "decode", doc)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if got, want := decodeJSON(t, out), [][]string{{"a", "b,c"}, {"p;q"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("table = %#v, want %#v", got, want)
	}

	out, _, err = runCLI(t, "", "--config", cfgPath, "decode", "--item-delimiter", ",", doc)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if got, want := decodeJSON(t, out), [][]string{{"a;b", "c"}, {"p;q"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("table = %#v, want %#v", got, want)
	}
}

func TestDecodeConfigNonStringToken(t *testing.T) {
	cfgPath := writeFile(t, "swiftdsv.toml", "[decoder]\nitemDelimiter = 5\n")

	_, _, err := runCLI(t, "a", "--config", cfgPath, "decode")
	if !errors.Is(err, swiftdsv.ErrConfiguration) {
		t.Fatalf("decode error = %v, want ErrConfiguration", err)
	}
}

func TestDecodeInvalidFlagToken(t *testing.T) {
	_, _, err := runCLI(t, "a", "decode", "--text-character", "ab")
	if !errors.Is(err, swiftdsv.ErrConfiguration) {
		t.Fatalf("decode error = %v, want ErrConfiguration", err)
	}
}

func TestDecodeUnbalancedQuote(t *testing.T) {
	bad := writeFile(t, "bad.csv", "ok\r\n\"broken")

	out, stderr, err := runCLI(t, "", "decode", bad)
	if !errors.Is(err, swiftdsv.ErrUnbalancedQuote) {
		t.Fatalf("decode error = %v, want ErrUnbalancedQuote", err)
	}
	var perr *swiftdsv.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Fatalf("decode error = %v, want ParseError on line 2", err)
	}
	if out != "" {
		t.Fatalf("stdout = %q, want nothing on failure", out)
	}
	if !strings.Contains(stderr, "decode failed") {
		t.Fatalf("stderr = %q, want a failure log", stderr)
	}
}

func TestDecodeMultipleFilesPretty(t *testing.T) {
	first := writeFile(t, "first.csv", "a,bb\r\nccc,d")
	second := writeFile(t, "second.csv", "x")

	out, _, err := runCLI(t, "", "decode", "--jobs", "2", first, second)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	want := "==> " + first + " <==\n" +
		"a    bb\n" +
		"ccc  d\n" +
		"\n" +
		"==> " + second + " <==\n" +
		"x\n"
	if out != want {
		t.Fatalf("output mismatch:\n got: %q\nwant: %q", out, want)
	}
}

func TestDecodeLogsJSON(t *testing.T) {
	_, stderr, err := runCLI(t, "a,b", "--log-format", "json", "decode", "--format", "json")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}

	var finished map[string]any
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line %q is not JSON: %v", line, err)
		}
		if entry["msg"] == "decode finished" {
			finished = entry
		}
	}
	if finished == nil {
		t.Fatalf("no decode finished entry in %q", stderr)
	}
	if finished["file"] != "-" || finished["rows"] != float64(1) {
		t.Fatalf("unexpected finished entry: %v", finished)
	}
}

func TestDecodeRejectsBadSettings(t *testing.T) {
	if _, _, err := runCLI(t, "a", "decode", "--format", "xml"); err == nil {
		t.Fatal("decode expected error for unknown format")
	}
	if _, _, err := runCLI(t, "a", "decode", "--jobs", "0"); err == nil {
		t.Fatal("decode expected error for zero jobs")
	}
	if _, _, err := runCLI(t, "a", "decode", "--encoding", "klingon"); err == nil {
		t.Fatal("decode expected error for unknown encoding")
	}
	if _, _, err := runCLI(t, "", "decode", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("decode expected error for missing file")
	}
}

func TestDecodeStdinOnce(t *testing.T) {
	if _, _, err := runCLI(t, "a", "decode", "-", "-"); err == nil || !strings.Contains(err.Error(), "only be read once") {
		t.Fatalf("decode - - error = %v, want a single-read error", err)
	}

	file := writeFile(t, "file.csv", "f")
	out, _, err := runCLI(t, "s", "decode", "--format", "json", "-", file)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if want := "[[\"s\"]]\n[[\"f\"]]\n"; out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestDecodeHeaderFlag(t *testing.T) {
	for _, args := range [][]string{
		{"decode", "--header"},
		{"decode", "--header=false"},
	} {
		out, _, err := runCLI(t, "a,b\r\nc,d", args...)
		if err != nil {
			t.Fatalf("%v error = %v", args, err)
		}
		if !strings.Contains(out, "a  b") || !strings.Contains(out, "c  d") {
			t.Fatalf("%v output = %q, want both rows", args, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if out != "swiftdsv dev\n" {
		t.Fatalf("version output = %q", out)
	}
}

func TestUnescapeFlag(t *testing.T) {
	tests := map[string]string{
		`\t`:   "\t",
		`\r\n`: "\r\n",
		`;`:    ";",
		`\\n`:  `\n`,
		`"`:    `"`,
	}
	for in, want := range tests {
		if got := unescapeFlag(in); got != want {
			t.Errorf("unescapeFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, false, errors.New("boom"))
	if got := buf.String(); got != "error: boom\n" {
		t.Fatalf("printError() = %q", got)
	}

	buf.Reset()
	printError(&buf, true, errors.New("boom"))
	if got := buf.String(); !strings.Contains(got, "\x1b[") {
		t.Fatalf("printError() with color = %q, want ANSI styling", got)
	}
}
