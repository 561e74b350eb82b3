package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for notes about the run (the config file in use).
	SevInfo Severity = iota
	// SevWarning is for problems that do not change the exit status.
	SevWarning
	// SevError marks a file or block that could not be processed.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lowercase name used in machine-readable output.
func (s Severity) Label() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
