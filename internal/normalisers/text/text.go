// Package text provides the whitespace and control-character normalisation
// shared by every document reader.
package text

import (
	"strings"
	"unicode"
)

// Normalise collapses runs of whitespace (including non-breaking spaces) to a
// single space, drops control and format characters, and trims both ends.
// Normalise is idempotent: Normalise(Normalise(s)) == Normalise(s).
func Normalise(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		switch {
		case r == '\u00a0' || unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsControl(r) || unicode.Is(unicode.Cf, r):
			// Vertical tabs, zero-width joiners and friends carry no text.
			continue
		case r == unicode.ReplacementChar:
			continue
		default:
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Words splits normalised text into whitespace-separated words.
func Words(s string) []string {
	return strings.Fields(s)
}

// FirstWords returns the first n words of s joined by single spaces, and
// whether the text was cut short.
func FirstWords(s string, n int) (string, bool) {
	words := Words(s)
	if n <= 0 || len(words) <= n {
		return strings.Join(words, " "), false
	}
	return strings.Join(words[:n], " "), true
}

// SplitWords cuts s into consecutive pieces of at most size words.
// Empty input yields no pieces. A non-positive size returns s whole.
func SplitWords(s string, size int) []string {
	words := Words(s)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 || len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	pieces := make([]string, 0, len(words)/size+1)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		pieces = append(pieces, strings.Join(words[start:end], " "))
	}
	return pieces
}

// Truncate shortens s to at most max bytes without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// TruncateWords cuts s to at most max bytes, backing off to the last word
// boundary when the cut would split a word, and normalises the result. A
// single word longer than max is still cut inside it.
func TruncateWords(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return Normalise(s)
	}
	cut := Truncate(s, max)
	if !isSpaceByte(s[len(cut)]) {
		if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
			cut = cut[:i]
		}
	}
	return Normalise(cut)
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
