package swiftdsv

import (
	"strings"
	"unicode/utf8"
)

// splitLines cuts document at every line delimiter found outside a quoted span.
// The delimiter may span several characters.
func splitLines(document string, cfg config) []string {
	delim := cfg.lineDelim
	return splitOutsideQuotes(document, cfg.quote, func(rest, _ string) int {
		if strings.HasPrefix(rest, delim) {
			return len(delim)
		}
		return 0
	})
}

// splitItems cuts line at every character equal to the item delimiter found
// outside a quoted span. An item delimiter longer than one character never
// equals a single character, so it never splits.
func splitItems(line string, cfg config) []string {
	delim := cfg.itemDelim
	return splitOutsideQuotes(line, cfg.quote, func(_, ch string) int {
		if ch == delim {
			return len(delim)
		}
		return 0
	})
}

// splitOutsideQuotes scans s once, left to right. Every quote flips the quoted
// flag; while the flag is off, match reports the length of a delimiter starting
// at the current character ch (rest is s from that character on), or 0. A
// match closes the current segment and scanning resumes right after the
// delimiter. The segment after the last delimiter is always appended, even when
// it is empty.
func splitOutsideQuotes(s, quote string, match func(rest, ch string) int) []string {
	var out []string
	quoted := false
	offset := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		ch := s[i : i+size]
		switch {
		case ch == quote:
			quoted = !quoted
		case quoted:
		default:
			if n := match(s[i:], ch); n > 0 {
				out = append(out, s[offset:i])
				i += n
				offset = i
				continue
			}
		}
		i += size
	}
	return append(out, s[offset:])
}

// decodeItem strips the enclosing quotes of a quoted item and unescapes the rest.
// An item counts as quoted when it is at least two characters long and both
// starts and ends with quote; a lone quote character is not.
func decodeItem(item, quote string) (string, error) {
	if utf8.RuneCountInString(item) >= 2 && strings.HasPrefix(item, quote) && strings.HasSuffix(item, quote) {
		item = item[len(quote) : len(item)-len(quote)]
	}
	return unescapeText(item, quote)
}

// unescapeText collapses every pair of quote characters into one. The first
// quote of a pair is written and opens the escape; the second closes it and is
// dropped. Any other character inside an open escape, or an escape still open
// at the end, is an unbalanced quote.
func unescapeText(text, quote string) (string, error) {
	if !strings.Contains(text, quote) {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	escape := false
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		ch := text[i : i+size]
		switch {
		case ch == quote:
			if !escape {
				b.WriteString(ch)
			}
			escape = !escape
		case escape:
			return "", ErrUnbalancedQuote
		default:
			b.WriteString(ch)
		}
		i += size
	}
	if escape {
		return "", ErrUnbalancedQuote
	}
	return b.String(), nil
}
