package driver

// Summary aggregates the results of a sweep.
type Summary struct {
	Files     int
	Changed   []string       // reformatted, or needing it in check mode
	Errored   []FormatResult // files with at least one error
	Unchanged int            // neither changed nor errored
	Cached    int
}

// Summarize counts results. A file that changed and also had block errors is
// listed in both Changed and Errored.
func Summarize(results []FormatResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if r.Cached {
			s.Cached++
		}
		if r.Changed {
			s.Changed = append(s.Changed, r.Path)
		}
		if r.HasErrors() {
			s.Errored = append(s.Errored, r)
		}
		if !r.Changed && !r.HasErrors() {
			s.Unchanged++
		}
	}
	return s
}

// ErrorCount returns the number of files with errors.
func (s Summary) ErrorCount() int { return len(s.Errored) }

// Failed reports whether the run should exit non-zero. Errors always fail;
// pending changes fail only in check mode.
func (s Summary) Failed(mode Mode) bool {
	if len(s.Errored) > 0 {
		return true
	}
	return mode == ModeCheck && len(s.Changed) > 0
}
