package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"brufmt/internal/diag"
	"brufmt/internal/diagfmt"
	"brufmt/internal/driver"
	"brufmt/internal/observ"
	"brufmt/internal/source"
)

var (
	changedHeading = color.New(color.FgGreen, color.Underline)
	changedPath    = color.New(color.FgGreen)
	errorHeading   = color.New(color.FgYellow, color.Underline)
	errorText      = color.New(color.FgYellow)
	summaryLead    = color.New(color.FgMagenta)
)

func changedPrefix(mode driver.Mode) string {
	if mode == driver.ModeWrite {
		return "Reformatted blocks"
	}
	return "Found blocks that need reformatting"
}

func displayPath(path, baseDir string) string {
	return source.FormatPath(path, "relative", baseDir)
}

// printReport writes the text report: changed files to out, errored files to
// errOut, then the summary line to out.
func printReport(out, errOut io.Writer, summary driver.Summary, mode driver.Mode, baseDir string, quiet bool) {
	prefix := changedPrefix(mode)

	if len(summary.Changed) > 0 && !quiet {
		fmt.Fprintf(out, "%s\n\n", changedHeading.Sprintf("%s in %d file(s):", prefix, len(summary.Changed)))
		for _, path := range summary.Changed {
			fmt.Fprintf(out, "  %s\n", changedPath.Sprint(displayPath(path, baseDir)))
		}
		fmt.Fprintln(out)
	}

	if len(summary.Errored) > 0 {
		fmt.Fprintf(errOut, "%s\n\n", errorHeading.Sprintf("Encountered errors in %d file(s):", len(summary.Errored)))
		for i, res := range summary.Errored {
			fmt.Fprintf(errOut, "%d) %s\n\n", i+1, displayPath(res.Path, baseDir))
			for _, msg := range errorMessages(res) {
				fmt.Fprintf(errOut, "%s\n\n", errorText.Sprint(indentLines(msg, "   ")))
			}
		}
	}

	if quiet {
		return
	}
	fmt.Fprintf(out, "%s %s in %d. Encountered errors in %d. %d file(s) did not require any changes.\n",
		summaryLead.Sprintf("Processed %d .bru file(s):", summary.Files),
		prefix, len(summary.Changed), len(summary.Errored), summary.Unchanged)
}

func errorMessages(res driver.FormatResult) []string {
	msgs := make([]string, 0, len(res.Messages)+1)
	if res.Err != nil {
		msgs = append(msgs, res.Err.Error())
	}
	return append(msgs, res.Messages...)
}

func indentLines(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// printDiagnostics renders diagnostics raised outside the per-file report
// (configuration warnings, cache problems).
func printDiagnostics(w io.Writer, bag *diag.Bag, colorOn bool, baseDir string) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	diagfmt.Pretty(w, bag, diagfmt.PrettyOpts{
		Color:     colorOn,
		PathMode:  diagfmt.PathModeRelative,
		BaseDir:   baseDir,
		ShowNotes: true,
	})
}

func collectDiagnostics(results []driver.FormatResult) *diag.Bag {
	bag := diag.NewBag(1 << 15)
	for _, res := range results {
		for _, d := range res.Diagnostics {
			bag.Add(d)
		}
	}
	bag.Sort()
	return bag
}

type jsonFile struct {
	Path    string   `json:"path"`
	Changed bool     `json:"changed"`
	Cached  bool     `json:"cached,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type jsonSummary struct {
	Files     int `json:"files"`
	Changed   int `json:"changed"`
	Errored   int `json:"errored"`
	Unchanged int `json:"unchanged"`
	Cached    int `json:"cached"`
}

type jsonReport struct {
	Mode        string                    `json:"mode"`
	Files       []jsonFile                `json:"files"`
	Summary     jsonSummary               `json:"summary"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timings     *observ.Report            `json:"timings,omitempty"`
}

func buildJSONReport(results []driver.FormatResult, summary driver.Summary, mode driver.Mode, baseDir string) jsonReport {
	files := make([]jsonFile, 0, len(results))
	for _, res := range results {
		files = append(files, jsonFile{
			Path:    displayPath(res.Path, baseDir),
			Changed: res.Changed,
			Cached:  res.Cached,
			Errors:  errorMessages(res),
		})
	}
	return jsonReport{
		Mode:  mode.String(),
		Files: files,
		Summary: jsonSummary{
			Files:     summary.Files,
			Changed:   len(summary.Changed),
			Errored:   len(summary.Errored),
			Unchanged: summary.Unchanged,
			Cached:    summary.Cached,
		},
		Diagnostics: diagfmt.BuildDiagnosticsOutput(collectDiagnostics(results).Items(), diagfmt.JSONOpts{
			PathMode:     diagfmt.PathModeRelative,
			BaseDir:      baseDir,
			IncludeNotes: true,
		}),
	}
}

func writeJSONReport(w io.Writer, report jsonReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
