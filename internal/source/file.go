// Package source loads .bru files and keeps what is needed to write them
// back faithfully.
package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Load reads a file from disk, strips a UTF-8 byte order mark and records
// its permissions.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := newFile(path, content, 0)
	f.Mode = info.Mode().Perm()
	return f, nil
}

// Virtual builds a file from memory (stdin, tests).
func Virtual(name string, content []byte) *File {
	return newFile(name, content, FileVirtual)
}

func newFile(path string, content []byte, flags FileFlags) *File {
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHadCRLF
	}
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// Text returns the content as a string.
func (f *File) Text() string { return string(f.Content) }

// Encode returns text as it should be written back, restoring the byte
// order mark the file was loaded with.
func (f *File) Encode(text string) []byte {
	if f.Flags&FileHadBOM == 0 {
		return []byte(text)
	}
	out := make([]byte, 0, len(bom)+len(text))
	out = append(out, bom...)
	return append(out, text...)
}

// Write stores text at the file's path, keeping its permissions. The content
// goes to a sibling temp file first and is renamed into place.
func (f *File) Write(text string) error {
	if f.Flags&FileVirtual != 0 {
		return fmt.Errorf("%s: cannot write a virtual file", f.Path)
	}
	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".brufmt-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(f.Encode(text)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Position converts a byte offset into a line and column.
func (f *File) Position(off int) LineCol {
	o, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return toLineCol(f.LineIdx, o)
}

// GetLine returns the line with the given 1-based number, or "".
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}

	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte("\r")))
}

// FormatPath formats the file path for display.
// mode: "absolute", "relative", "basename", "auto"
// baseDir: base for relative paths (ignored by other modes)
func (f *File) FormatPath(mode, baseDir string) string {
	return FormatPath(f.Path, mode, baseDir)
}

// FormatPath formats path for display, see File.FormatPath.
func FormatPath(path, mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(path); err == nil {
			return abs
		}
		return path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(path, baseDir); err == nil {
			return rel
		}
		return path

	case "basename":
		return BaseName(path)

	case "auto":
		if len(path) < 40 || !filepath.IsAbs(path) {
			return path
		}
		return BaseName(path)

	default:
		return path
	}
}
