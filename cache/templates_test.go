package cache

import (
	"testing"
	"testing/fstest"

	"github.com/ancientlore/quire/builderr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreload(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":      {Data: []byte("index")},
		"posts/post.html": {Data: []byte("post")},
		"unused.html":     {Data: []byte("unused")},
	}
	tpl, err := Preload(fsys, []string{"posts/post.html", "index.html", "index.html"})
	require.NoError(t, err)
	assert.Equal(t, 2, tpl.Len())
	assert.Equal(t, []string{"index.html", "posts/post.html"}, tpl.Paths())

	s, ok := tpl.Get("posts/post.html")
	assert.True(t, ok)
	assert.Equal(t, "post", s)

	_, ok = tpl.Get("unused.html")
	assert.False(t, ok)
}

func TestPreloadMissing(t *testing.T) {
	_, err := Preload(fstest.MapFS{}, []string{"index.html"})
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.ReadInput))
	assert.Contains(t, err.Error(), "index.html")

	_, err = Preload(fstest.MapFS{}, []string{"../outside.html"})
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.ReadInput))
}

func TestPreloadEmpty(t *testing.T) {
	tpl, err := Preload(fstest.MapFS{}, nil)
	require.NoError(t, err)
	assert.Zero(t, tpl.Len())
	assert.Empty(t, tpl.Paths())
}
