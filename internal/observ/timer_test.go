package observ

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_Report(t *testing.T) {
	tm := NewTimer()
	h := tm.Begin("collect")
	tm.End(h, "3 files")
	tm.End(h, "ended twice")
	tm.End(h+5, "ignored")
	tm.Measure("format", func() string {
		time.Sleep(time.Millisecond)
		return "check"
	})
	tm.Begin("report")

	r := tm.Report()
	require.Len(t, r.Phases, 3)
	assert.Equal(t, "collect", r.Phases[0].Name)
	assert.Equal(t, "3 files", r.Phases[0].Note)
	assert.Equal(t, "check", r.Phases[1].Note)
	assert.True(t, r.Phases[2].Open)
	assert.GreaterOrEqual(t, r.TotalMS, r.Phases[1].DurationMS)

	s := tm.Summary()
	assert.Contains(t, s, "timings:")
	assert.Contains(t, s, "3 files")
	assert.Contains(t, s, "(unfinished)")
	assert.Contains(t, s, "total")
}

func TestTimer_Nil(t *testing.T) {
	var tm *Timer
	assert.Equal(t, -1, tm.Begin("x"))
	tm.End(0, "")
	tm.Measure("y", func() string { return "" })
	assert.Empty(t, tm.Report().Phases)
	assert.Contains(t, tm.Summary(), "total")
}
