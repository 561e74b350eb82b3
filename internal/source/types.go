package source

import "io/fs"

// FileFlags encodes metadata about a loaded file.
type FileFlags uint8

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file whose UTF-8 byte order mark was stripped on load.
	FileHadBOM
	// FileHadCRLF marks a file that contains at least one CRLF line ending.
	FileHadCRLF
)

// File captures metadata and content for a single .bru file.
type File struct {
	Path    string
	Content []byte // without the byte order mark
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
	Mode    fs.FileMode
}

// LineCol represents a human-readable position in a file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
