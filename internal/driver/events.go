package driver

// Stage describes where a file is in the sweep.
type Stage string

const (
	StageLoad   Stage = "load"
	StageFormat Stage = "format"
	StageWrite  Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusClean indicates the file needed no changes.
	StatusClean Status = "clean"
	// StatusChanged indicates the file was or would be reformatted.
	StatusChanged Status = "changed"
	// StatusCached indicates the file was skipped as known clean.
	StatusCached Status = "cached"
	// StatusError indicates the file had at least one error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole sweep when File is empty).
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Terminal reports whether the event ends the processing of its file.
func (e Event) Terminal() bool {
	switch e.Status {
	case StatusClean, StatusChanged, StatusCached, StatusError:
		return true
	}
	return false
}

// Sink receives progress events. Implementations must be goroutine-safe.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(s Sink, file string, stage Stage, status Status) {
	if s == nil {
		return
	}
	s.OnEvent(Event{File: file, Stage: stage, Status: status})
}
