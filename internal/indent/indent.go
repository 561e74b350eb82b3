// Package indent converts block bodies between their indented form inside a
// .bru file and the flush-left form external formatters expect.
package indent

import "strings"

// Unit is the indentation of every line inside a .bru block.
const Unit = "  "

// Strip removes one Unit of leading indentation from each line that has it.
// Lines with less indentation are kept as they are.
func Strip(body string) string {
	if body == "" {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))

	i := 0
	for i < len(body) {
		lineEnd := strings.IndexByte(body[i:], '\n')
		var line string
		if lineEnd == -1 {
			line = body[i:]
			i = len(body)
		} else {
			line = body[i : i+lineEnd]
			i += lineEnd + 1
		}

		b.WriteString(strings.TrimPrefix(line, Unit))
		if lineEnd != -1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// TrimBlankEdges drops whitespace-only lines from both ends of lines.
func TrimBlankEdges(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Reapply trims blank edge lines from text and indents every remaining line,
// blank interior lines included, by one Unit.
func Reapply(text string) string {
	lines := TrimBlankEdges(strings.Split(text, "\n"))
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text) + len(lines)*len(Unit))
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Unit)
		b.WriteString(line)
	}
	return b.String()
}
