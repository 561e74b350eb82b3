// Package rewrite holds the textual clean-ups applied to .bru files around
// block formatting: response getter shortening inside scripts, @file path
// normalization and blank line tidying between blocks.
package rewrite

import (
	"regexp"
	"strings"
)

// Getters lists the response properties whose getter calls are shortened.
var Getters = []string{"body", "headers", "responseTime", "status", "statusText", "url"}

var getterCall = regexp.MustCompile(`res\.get(Body|Headers|ResponseTime|Status|StatusText|Url)\(\)`)

// ShortenGetters rewrites res.getBody() style calls to res.body. Only exact
// zero-argument calls on a standalone res receiver are rewritten.
func ShortenGetters(js string) string {
	if !strings.Contains(js, "res.get") {
		return js
	}
	matches := getterCall.FindAllStringSubmatchIndex(js, -1)
	if len(matches) == 0 {
		return js
	}

	var b strings.Builder
	b.Grow(len(js))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && isReceiverChar(js[start-1]) {
			continue
		}
		name := js[m[2]:m[3]]
		b.WriteString(js[last:start])
		b.WriteString("res.")
		b.WriteString(strings.ToLower(name[:1]))
		b.WriteString(name[1:])
		last = end
	}
	b.WriteString(js[last:])
	return b.String()
}

func isReceiverChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '$', c == '.':
		return true
	}
	return false
}
