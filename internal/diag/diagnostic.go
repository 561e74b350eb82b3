package diag

import "fmt"

// Location points at a place in a file. Line and Col are 1-based; zero
// means unknown.
type Location struct {
	Path string
	Line uint32
	Col  uint32
}

func (l Location) String() string {
	switch {
	case l.Line == 0:
		return l.Path
	case l.Col == 0:
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Col)
	}
}

type Note struct {
	Loc Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Block    string // block kind the diagnostic belongs to, if any
	Notes    []Note
}
