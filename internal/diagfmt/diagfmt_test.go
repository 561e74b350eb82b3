package diagfmt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brufmt/internal/diag"
)

func sampleBag(path string) *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.FmtBlockFailed, diag.Location{Path: path, Line: 5, Col: 1},
		"native could not format body:json because...\ninvalid character '}' (1:7)").
		InBlock("body:json").
		WithNote(diag.Location{}, "the block was left unchanged"))
	bag.Add(diag.NewWarning(diag.CfgUnknownKey, diag.Location{Path: "brufmt.toml", Line: 3}, `unknown key "semi"`))
	return bag
}

func TestPretty(t *testing.T) {
	base := t.TempDir()
	path := filepath.ToSlash(filepath.Join(base, "requests", "login.bru"))

	tests := []struct {
		name string
		opts PrettyOpts
		want string
	}{
		{"absolute", PrettyOpts{PathMode: PathModeAbsolute}, path + ":5:1: ERROR FMT3001: body:json: native could not format body:json because...\n"},
		{"relative", PrettyOpts{PathMode: PathModeRelative, BaseDir: base}, "requests/login.bru:5:1: ERROR FMT3001"},
		{"basename", PrettyOpts{PathMode: PathModeBasename}, "login.bru:5:1: ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, sampleBag(path), tt.opts)
			out := buf.String()
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "\n    invalid character '}' (1:7)\n")
			assert.Contains(t, out, "brufmt.toml:3: WARNING CFG1001: unknown key \"semi\"\n")
			assert.NotContains(t, out, "note:")
			assert.NotContains(t, out, "\x1b[")
		})
	}
}

func TestPretty_NotesAndColor(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag("a.bru"), PrettyOpts{Color: true, ShowNotes: true})
	assert.Contains(t, buf.String(), "the block was left unchanged")
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleBag("a.bru"), JSONOpts{IncludeNotes: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 2, out.Count)
	assert.Equal(t, "FMT3001", out.Diagnostics[0].Code)
	assert.Equal(t, "body:json", out.Diagnostics[0].Block)
	assert.Equal(t, LocationJSON{File: "a.bru", Line: 5, Col: 1}, out.Diagnostics[0].Location)
	require.Len(t, out.Diagnostics[0].Notes, 1)
	assert.Nil(t, out.Diagnostics[0].Notes[0].Location)

	limited := BuildDiagnosticsOutput(sampleBag("a.bru").Items(), JSONOpts{Max: 1})
	assert.Equal(t, 1, limited.Count)
	assert.Empty(t, limited.Diagnostics[0].Notes)
}
