package main

import (
	"fmt"
	"io"

	"brufmt/internal/driver"
	"brufmt/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer, summary driver.Summary) {
	if out == nil || timer == nil {
		return
	}
	if _, err := io.WriteString(out, timer.Summary()); err != nil {
		return
	}
	if summary.Cached > 0 {
		_, _ = fmt.Fprintf(out, "  %d of %d file(s) skipped as unchanged since the last run\n", summary.Cached, summary.Files)
	}
}
