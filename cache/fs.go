/*
Package cache holds the template text a build needs.

Templates are read through NewFS, a read-only groupcache cache around the templates
folder, so an include that many pages share is read from disk once. Before pages are
exported, Preload reads every template a build refers to into a Templates snapshot.
The snapshot is never changed after Preload returns and can be read from any number
of goroutines without locking.
*/
package cache

import (
	"io/fs"

	"github.com/ancientlore/cachefs"
	"github.com/google/uuid"
)

// DefaultSize is the cache size used when NewFS is given a size <= 0.
const DefaultSize = 10 * 1024 * 1024

// NewFS wraps templates in a read-only groupcache of sizeInBytes. Each call uses
// a new group name, since groupcache groups cannot be registered twice.
// Cached entries do not expire during a build.
func NewFS(templates fs.FS, sizeInBytes int64) fs.FS {
	if sizeInBytes <= 0 {
		sizeInBytes = DefaultSize
	}
	return cachefs.New(templates, &cachefs.Config{
		GroupName:   "templates-" + uuid.NewString(),
		SizeInBytes: sizeInBytes,
	})
}
