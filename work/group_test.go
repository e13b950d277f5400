package work

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ancientlore/quire/builderr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupWaitsForAllJobs(t *testing.T) {
	var done atomic.Int32
	g := NewGroup(2)
	for i := 0; i < 10; i++ {
		g.Go("job", func() error {
			time.Sleep(time.Millisecond)
			done.Add(1)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 10, done.Load())
}

func TestGroupErrorDoesNotCancelSiblings(t *testing.T) {
	var done atomic.Int32
	boom := errors.New("boom")
	g := NewGroup(0)
	g.Go("fails", func() error { return boom })
	for i := 0; i < 5; i++ {
		g.Go("slow", func() error {
			time.Sleep(5 * time.Millisecond)
			done.Add(1)
			return nil
		})
	}
	err := g.Wait()
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 5, done.Load())
}

func TestGroupRecoversPanics(t *testing.T) {
	g := NewGroup(1)
	g.Go("posts/a.md", func() error { panic("nil map") })
	err := g.Wait()
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.Join))
	assert.Equal(t, builderr.Defect, builderr.CategoryOf(err))

	var be *builderr.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "posts/a.md", be.Path)
	assert.NotEmpty(t, be.Stack)
	assert.Contains(t, err.Error(), "nil map")
}
