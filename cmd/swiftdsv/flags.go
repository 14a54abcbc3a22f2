package main

import "strings"

var flagEscapes = strings.NewReplacer(`\\`, `\`, `\t`, "\t", `\r`, "\r", `\n`, "\n")

// unescapeFlag turns the escapes people type on a shell (\t, \r, \n, \\)
// into the characters they stand for.
func unescapeFlag(s string) string {
	return flagEscapes.Replace(s)
}
