package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_OrderIndependent(t *testing.T) {
	a := Settings(map[string]any{"shortenGetters": true, "only": "", "prettier": map[string]any{"semi": false, "tabWidth": 2}})
	b := Settings(map[string]any{"prettier": map[string]any{"tabWidth": 2, "semi": false}, "only": "", "shortenGetters": true})
	c := Settings(map[string]any{"shortenGetters": false, "only": "", "prettier": map[string]any{"semi": false, "tabWidth": 2}})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.False(t, a.IsZero())
	assert.Len(t, a.String(), 64)
}

func TestCombine(t *testing.T) {
	x, y := Of([]byte("x")), Of([]byte("y"))
	assert.NotEqual(t, Combine(x, y), Combine(y, x))
	assert.Equal(t, Combine(x, y), Key([]byte("x"), y))
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	require.NoError(t, err)

	settings := Settings(map[string]any{"a": 1})
	content := []byte("meta {\n}\n")

	assert.False(t, c.IsClean(content, settings))
	require.NoError(t, c.MarkClean("a.bru", content, settings))
	assert.True(t, c.IsClean(content, settings))
	assert.False(t, c.IsClean([]byte("meta {\n  x\n}\n"), settings))
	assert.False(t, c.IsClean(content, Settings(map[string]any{"a": 2})))

	p, ok, err := c.Get(Key(content, settings))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a.bru", p.Path)
	assert.Equal(t, uint32(len(content)), p.Size)

	require.NoError(t, c.DropAll())
	assert.False(t, c.IsClean(content, settings))
	_, err = os.Stat(c.Dir())
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, c.MarkClean("a.bru", content, settings))
	assert.True(t, c.IsClean(content, settings))
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	require.NoError(t, err)
	key := Key([]byte("x"), Digest{})
	p := c.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte{0xc1}, 0o644))

	_, ok, err := c.Get(key)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, c.IsClean([]byte("x"), Digest{}))
}

func TestDiskCache_Nil(t *testing.T) {
	var c *DiskCache
	assert.NoError(t, c.MarkClean("a", nil, Digest{}))
	assert.False(t, c.IsClean(nil, Digest{}))
	assert.NoError(t, c.DropAll())
	assert.Equal(t, "", c.Dir())
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir("brufmt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "brufmt"), dir)
}
