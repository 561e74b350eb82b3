package block

import "strings"

// StripEmpty removes every block of the given kinds whose header line is
// directly followed by its closing "}" line. The blank lines that separated
// the block from the content before it go with it; a block at the very
// start of the text takes the blank lines after it instead.
func StripEmpty(text string, kinds []Kind) string {
	if text == "" || len(kinds) == 0 {
		return text
	}
	headers := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		headers[k.header()] = true
	}

	lines := strings.Split(text, "\n")
	changed := false
	for i := 0; i+1 < len(lines); i++ {
		if !headers[lines[i]] || lines[i+1] != "}" {
			continue
		}
		start, end := i, i+2
		for start > 0 && isBlank(lines[start-1]) {
			start--
		}
		if start == 0 {
			// the last element is what follows the final newline, keep it
			for end < len(lines)-1 && isBlank(lines[end]) {
				end++
			}
		}
		lines = append(lines[:start], lines[end:]...)
		changed = true
		i = start - 1
	}
	if !changed {
		return text
	}
	return strings.Join(lines, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
