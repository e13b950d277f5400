package cache

import (
	"io/fs"
	"maps"
	"path"
	"slices"

	"github.com/ancientlore/quire/builderr"
)

// Templates is an immutable snapshot of template text by path.
type Templates struct {
	m map[string]string
}

// Preload reads each distinct path from fsys once and returns the snapshot.
// It runs in the calling goroutine; the first unreadable template aborts it.
func Preload(fsys fs.FS, paths []string) (*Templates, error) {
	m := make(map[string]string, len(paths))
	for _, p := range paths {
		if _, ok := m[p]; ok {
			continue
		}
		name := path.Clean(p)
		if !fs.ValidPath(name) {
			return nil, builderr.New(builderr.ReadInput, p, fs.ErrInvalid)
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, builderr.New(builderr.ReadInput, p, err)
		}
		m[p] = string(b)
	}
	return &Templates{m: m}, nil
}

// Get returns the text of the template at p.
func (t *Templates) Get(p string) (string, bool) {
	s, ok := t.m[p]
	return s, ok
}

// Len returns the number of templates.
func (t *Templates) Len() int {
	return len(t.m)
}

// Paths returns the template paths in sorted order.
func (t *Templates) Paths() []string {
	return slices.Sorted(maps.Keys(t.m))
}
