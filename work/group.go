// Package work runs batches of independent jobs with a join barrier.
package work

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/ancientlore/quire/builderr"
	"golang.org/x/sync/errgroup"
)

// Group runs jobs concurrently, at most limit at a time.
// Wait blocks until every started job has returned, so a failing job never
// cancels its siblings. A panicking job is reported as a builderr.Join error.
type Group struct {
	eg errgroup.Group
}

// NewGroup returns a group that runs at most limit jobs at once.
// A limit <= 0 uses GOMAXPROCS.
func NewGroup(limit int) *Group {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g := &Group{}
	g.eg.SetLimit(limit)
	return g
}

// Go starts fn in a new goroutine, blocking while the group is at its limit.
// name identifies the job in crash reports.
func (g *Group) Go(name string, fn func() error) {
	g.eg.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &builderr.Error{
					Kind:  builderr.Join,
					Path:  name,
					Err:   fmt.Errorf("panic: %v", r),
					Stack: string(debug.Stack()),
				}
			}
		}()
		return fn()
	})
}

// Wait waits for all jobs and returns the first error any of them returned.
func (g *Group) Wait() error {
	return g.eg.Wait()
}
