package diag

// Reporter receives diagnostics from the config loader and the driver.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adds every diagnostic to Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops every diagnostic.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }
