package ui

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended when a label does not fit its budget.
const Ellipsis = "..."

// Truncate fits a UTF-8 label into a budget of maxChars code points.
//
// Embedded newlines either end the result (stopAtLF) or render as a literal
// backslash-n that counts as two characters against the budget. A control
// byte ends the label. When printable content remains past the cut point an
// ellipsis is appended, and quote wraps the whole result in double quotes,
// so a quoted widget label reads "like this..." in the outline.
func Truncate(s string, maxChars int, quote, stopAtLF bool) string {
	var b strings.Builder
	if quote {
		b.WriteByte('"')
	}
	size, i := 0, 0
	for size < maxChars && i < len(s) {
		if s[i] == '\n' {
			if stopAtLF {
				if quote {
					b.WriteByte('"')
				}
				return b.String()
			}
			b.WriteString(`\n`)
			i++
			size += 2
			continue
		}
		if s[i]&0xe0 == 0 {
			// NUL or another control byte ends the label.
			break
		}
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && n <= 1 {
			break
		}
		b.WriteString(s[i : i+n])
		i += n
		size++
	}
	if i < len(s) && s[i] != '\n' {
		b.WriteString(Ellipsis)
	}
	if quote {
		b.WriteByte('"')
	}
	return b.String()
}
