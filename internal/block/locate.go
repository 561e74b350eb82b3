package block

import "strings"

// Region is the body of one located block. Start and End are byte offsets of
// the body inside the text it was located in; the body never includes the
// newline that precedes the closing "}" line.
type Region struct {
	Kind  Kind
	Body  string
	Start int
	End   int
}

// Empty reports whether the block has no body lines at all.
func (r Region) Empty() bool { return r.Start == r.End }

// Locate finds the first block of kind k in text.
//
// The header must be a whole line equal to "<name> {"; the body runs up to the
// first line that is exactly "}". An unterminated first block is not found.
func Locate(text string, k Kind) (Region, bool) {
	header := k.header()
	pos := 0
	for pos < len(text) {
		nl := strings.IndexByte(text[pos:], '\n')
		if nl < 0 {
			return Region{}, false
		}
		if text[pos:pos+nl] == header {
			return scanBody(text, k, pos+nl+1)
		}
		pos += nl + 1
	}
	return Region{}, false
}

func scanBody(text string, k Kind, start int) (Region, bool) {
	pos := start
	for pos <= len(text) {
		nl := strings.IndexByte(text[pos:], '\n')
		line := text[pos:]
		if nl >= 0 {
			line = text[pos : pos+nl]
		}
		if line == "}" {
			if pos == start {
				return Region{Kind: k, Start: start, End: start}, true
			}
			// pos-1 is the newline ending the last body line
			return Region{Kind: k, Body: text[start : pos-1], Start: start, End: pos - 1}, true
		}
		if nl < 0 {
			break
		}
		pos += nl + 1
	}
	return Region{}, false
}

// Splice returns text with the region's body replaced by body.
// An empty replacement also drops the line break before "}" so the block
// collapses to "<name> {\n}".
func (r Region) Splice(text, body string) string {
	switch {
	case body == "" && r.Empty():
		return text
	case body == "":
		return text[:r.Start] + text[r.End+1:]
	case r.Empty():
		return text[:r.Start] + body + "\n" + text[r.Start:]
	default:
		return text[:r.Start] + body + text[r.End:]
	}
}
