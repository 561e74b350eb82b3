package source

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RemembersBOMAndMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.bru")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFmeta {\r\n}\r\n"), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "meta {\r\n}\r\n", f.Text())
	assert.NotZero(t, f.Flags&FileHadBOM)
	assert.NotZero(t, f.Flags&FileHadCRLF)
	assert.Zero(t, f.Flags&FileVirtual)
	assert.Equal(t, "meta {", f.GetLine(1))

	require.NoError(t, f.Write("meta {\n}\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFmeta {\n}\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.bru"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(dir)
	assert.Error(t, err)
}

func TestVirtual(t *testing.T) {
	f := Virtual("<stdin>", []byte("tests {\n  a()\n}\n"))
	assert.NotZero(t, f.Flags&FileVirtual)
	assert.Equal(t, "  a()", f.GetLine(2))
	assert.Equal(t, "", f.GetLine(9))
	assert.Equal(t, LineCol{Line: 2, Col: 3}, f.Position(10))
	assert.Error(t, f.Write("x"))
	assert.Equal(t, []byte("x"), f.Encode("x"))
}
