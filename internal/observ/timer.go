// Package observ measures the phases of a brufmt run for --timings.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step of a run. Dur stays zero until the phase ends.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	done  bool
}

// Timer records run phases in the order they begin. Methods may be called
// from several goroutines and on a nil *Timer, which records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Begin opens a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase opened by Begin. Unknown handles and phases that
// already ended are ignored.
func (t *Timer) End(handle int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle < 0 || handle >= len(t.phases) || t.phases[handle].done {
		return
	}
	ph := &t.phases[handle]
	ph.Dur, ph.Note, ph.done = time.Since(ph.Start), note, true
}

// Measure runs fn as a phase named name; fn's string result becomes the note.
func (t *Timer) Measure(name string, fn func() string) {
	h := t.Begin(name)
	t.End(h, fn())
}

// PhaseReport is the JSON form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Open       bool    `json:"open,omitempty"`
}

// Report is the JSON form of a timer. TotalMS spans from the first phase
// start to the latest phase end.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var r Report
	var first, last time.Time
	for i, ph := range t.phases {
		r.Phases = append(r.Phases, PhaseReport{
			Name:       ph.Name,
			DurationMS: millis(ph.Dur),
			Note:       ph.Note,
			Open:       !ph.done,
		})
		if i == 0 {
			first = ph.Start
		}
		if end := ph.Start.Add(ph.Dur); end.After(last) {
			last = end
		}
	}
	if len(r.Phases) > 0 {
		r.TotalMS = millis(last.Sub(first))
	}
	return r
}

// Summary renders the report as an aligned table with each phase's share of
// the total.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, ph := range r.Phases {
		share := 0.0
		if r.TotalMS > 0 {
			share = 100 * ph.DurationMS / r.TotalMS
		}
		fmt.Fprintf(&sb, "  %-10s %9.2f ms %5.1f%%", ph.Name, ph.DurationMS, share)
		switch {
		case ph.Open:
			sb.WriteString("  (unfinished)")
		case ph.Note != "":
			sb.WriteString("  " + ph.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-10s %9.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
