package diagfmt

import (
	"encoding/json"
	"io"

	"brufmt/internal/diag"
)

// LocationJSON is a diag.Location in JSON output.
type LocationJSON struct {
	File string `json:"file"`
	Line uint32 `json:"line,omitempty"`
	Col  uint32 `json:"col,omitempty"`
}

// NoteJSON is a note in JSON output.
type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

// DiagnosticJSON is a diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Block    string       `json:"block,omitempty"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(loc diag.Location, opts JSONOpts) LocationJSON {
	return LocationJSON{
		File: displayPath(loc.Path, opts.PathMode, opts.BaseDir),
		Line: loc.Line,
		Col:  loc.Col,
	}
}

// BuildDiagnosticsOutput builds the JSON structure without serializing it.
func BuildDiagnosticsOutput(items []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, d := range items[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Block:    d.Block,
			Location: makeLocation(d.Primary, opts),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				nj := NoteJSON{Message: note.Msg}
				if note.Loc.Path != "" {
					loc := makeLocation(note.Loc, opts)
					nj.Location = &loc
				}
				dj.Notes = append(dj.Notes, nj)
			}
		}
		out = append(out, dj)
	}
	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON writes the diagnostics of bag as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag.Items(), opts))
}
