// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/spiffcs/gitsearch/internal/constants"
)

// ansiRegex matches SGR escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

const (
	ellipsis   = "..."
	resetColor = "\x1b[0m"
)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of s in terminal columns. ANSI
// sequences count as zero, wide runes (CJK, most emoji) as two.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// Truncate shortens s to at most maxWidth columns, ending in "..." when
// anything was cut. Colour sequences are kept intact and a reset is
// appended after the ellipsis so a cut never leaks colour into the next
// column. It returns the result and its visible width.
func Truncate(s string, maxWidth int) (string, int) {
	if maxWidth <= 0 {
		return "", 0
	}
	width := DisplayWidth(s)
	if width <= maxWidth {
		return s, width
	}
	if maxWidth <= constants.TruncationSuffixWidth {
		return ellipsis[:maxWidth], maxWidth
	}

	budget := maxWidth - constants.TruncationSuffixWidth
	escapes := ansiRegex.FindAllStringIndex(s, -1)
	colored := len(escapes) > 0

	var b strings.Builder
	used := 0
	for pos := 0; pos < len(s); {
		if len(escapes) > 0 && pos == escapes[0][0] {
			b.WriteString(s[escapes[0][0]:escapes[0][1]])
			pos = escapes[0][1]
			escapes = escapes[1:]
			continue
		}
		r, size := utf8.DecodeRuneInString(s[pos:])
		rw := runewidth.RuneWidth(r)
		if used+rw > budget {
			break
		}
		b.WriteString(s[pos : pos+size])
		used += rw
		pos += size
	}

	b.WriteString(ellipsis)
	if colored {
		b.WriteString(resetColor)
	}
	return b.String(), used + constants.TruncationSuffixWidth
}

// PadRight pads s with spaces until its visible width reaches targetWidth.
func PadRight(s string, targetWidth int) string {
	width := DisplayWidth(s)
	if width >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-width)
}

// Fit truncates or pads s to exactly width columns.
func Fit(s string, width int) string {
	truncated, _ := Truncate(s, width)
	return PadRight(truncated, width)
}

// SingleLine collapses runs of whitespace, newlines included, into single
// spaces. Repository descriptions often contain line breaks.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
