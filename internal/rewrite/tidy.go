package rewrite

import (
	"regexp"
	"strings"
)

var headerLine = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_:-]* \{$`)

// TidyBlocks collapses the blank lines separating a closing brace from the
// next block header into a single empty line. Blocks that follow each other
// without a separator, and content that is not between two blocks, are left
// as they are. A canonical separator of one empty line stays in place.
func TidyBlocks(text string) string {
	if !strings.Contains(text, "}\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	changed := false

	for i := 0; i < len(lines); i++ {
		out = append(out, lines[i])
		if lines[i] != "}" {
			continue
		}
		j := i + 1
		for j < len(lines) && isBlankLine(lines[j]) {
			j++
		}
		run := lines[i+1 : j]
		if j == len(lines) || !headerLine.MatchString(lines[j]) {
			continue
		}
		if len(run) == 0 || (len(run) == 1 && run[0] == "") {
			continue
		}
		out = append(out, "")
		changed = true
		i = j - 1
	}

	if !changed {
		return text
	}
	return strings.Join(out, "\n")
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
