package rewrite

import (
	"regexp"
	"strings"
)

var fileDirective = regexp.MustCompile(`@file\(([^)\n]*)\)`)

// NormalizeFilePaths turns backslashes into forward slashes inside every
// @file(...) directive so request files stay portable across platforms.
func NormalizeFilePaths(text string) string {
	if !strings.Contains(text, "@file(") || !strings.Contains(text, `\`) {
		return text
	}
	return fileDirective.ReplaceAllStringFunc(text, func(directive string) string {
		return strings.ReplaceAll(directive, `\`, "/")
	})
}
