// Package diagfmt renders diagnostics for the terminal and as JSON.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"brufmt/internal/diag"
	"brufmt/internal/source"
)

type palette struct {
	err, warn, info, path, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		path: color.New(color.Bold),
		dim:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes one entry per diagnostic:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <first message line>
//	    <remaining message lines>
//	  = note: <note>
//
// bag is expected to be sorted.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := d.Primary
		loc.Path = displayPath(loc.Path, opts.PathMode, opts.BaseDir)

		lines := strings.Split(strings.TrimRight(d.Message, "\n"), "\n")
		head := lines[0]
		if d.Block != "" {
			head = fmt.Sprintf("%s: %s", d.Block, head)
		}

		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(loc.String()),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			head)
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "    %s\n", l)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				where := ""
				if n.Loc.Path != "" {
					nl := n.Loc
					nl.Path = displayPath(nl.Path, opts.PathMode, opts.BaseDir)
					where = " (" + nl.String() + ")"
				}
				fmt.Fprintf(w, "  %s %s%s\n", p.dim.Sprint("= note:"), n.Msg, where)
			}
		}
	}
}

func displayPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return "<unknown>"
	}
	return source.FormatPath(path, mode.String(), baseDir)
}
