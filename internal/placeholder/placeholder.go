// Package placeholder makes Bruno {{variable}} placeholders used as bare JSON
// values survive a round trip through a strict JSON formatter.
//
// A body such as
//
//	{"count": {{n}}, "name": "{{name}}"}
//
// is not JSON. Wrap turns the bare placeholder into a string literal whose
// content is the placeholder between two Marker runes, and Unwrap strips
// that quoting again after formatting. Placeholders already inside string
// literals are never touched.
package placeholder

import (
	"regexp"
	"strings"
)

// Marker delimits wrapped placeholders. U+E000 is a private use code point
// that does not occur in ordinary request bodies.
const Marker = "\uE000"

var wrapped = regexp.MustCompile(`"` + Marker + `(\{\{[^"\n]*?\}\})` + Marker + `"`)

// Wrap quotes every {{...}} placeholder that appears outside a JSON string
// literal. Placeholders spanning a line break, or containing a quote or a
// backslash, are left alone.
func Wrap(text string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(text); {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			i++
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			i++
			continue
		}
		if c == '{' && strings.HasPrefix(text[i:], "{{") {
			if n := placeholderLen(text[i:]); n > 0 {
				b.WriteByte('"')
				b.WriteString(Marker)
				b.WriteString(text[i : i+n])
				b.WriteString(Marker)
				b.WriteByte('"')
				i += n
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// placeholderLen returns the length of the placeholder s starts with, or 0.
func placeholderLen(s string) int {
	end := strings.Index(s[2:], "}}")
	if end < 0 {
		return 0
	}
	inner := s[2 : 2+end]
	if strings.ContainsAny(inner, "\"\\\n{") {
		return 0
	}
	return end + 4
}

// Unwrap removes the quoting added by Wrap.
func Unwrap(text string) string {
	if !strings.Contains(text, Marker) {
		return text
	}
	return wrapped.ReplaceAllString(text, "$1")
}
