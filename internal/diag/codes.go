package diag

import (
	"fmt"
)

// Code identifies a kind of diagnostic.
type Code uint16

const (
	UnknownCode Code = 0

	// configuration
	CfgInfo          Code = 1000
	CfgUnknownKey    Code = 1001
	CfgInvalidValue  Code = 1002
	CfgUnreadable    Code = 1003
	CfgInvalidFormat Code = 1004

	// file system
	IOInfo          Code = 2000
	IOReadFailure   Code = 2001
	IOWriteFailure  Code = 2002
	IONoFilesFound  Code = 2003
	IOCacheDisabled Code = 2004

	// formatting
	FmtInfo         Code = 3000
	FmtBlockFailed  Code = 3001
	FmtNoBackend    Code = 3002
	FmtNeedsChanges Code = 3003
	FmtInvalidOnly  Code = 3004
)

var codeDescription = map[Code]string{
	UnknownCode:      "Unknown error",
	CfgInfo:          "Configuration information",
	CfgUnknownKey:    "Unknown configuration key",
	CfgInvalidValue:  "Invalid configuration value",
	CfgUnreadable:    "Configuration file cannot be read",
	CfgInvalidFormat: "Configuration file is malformed",
	IOInfo:           "File system information",
	IOReadFailure:    "File cannot be read",
	IOWriteFailure:   "File cannot be written",
	IONoFilesFound:   "No .bru files found",
	IOCacheDisabled:  "Cache is unavailable",
	FmtInfo:          "Formatting information",
	FmtBlockFailed:   "Block could not be formatted",
	FmtNoBackend:     "No formatter backend for block",
	FmtNeedsChanges:  "File needs formatting",
	FmtInvalidOnly:   "Invalid value for only parameter",
}

// ID returns the stable identifier of c, e.g. "FMT3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("FMT%04d", ic)
	}
	return "E0000"
}

// Title returns the short description of c.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
