package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/parity/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(route string, depth int) crawl.Item {
	return crawl.Item{URL: "https://example.com" + route, Route: route, Depth: depth}
}

func TestFrontier_Push_rejects_duplicate_routes(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	ok := f.Push(item("/page1", 1))
	assert.True(t, ok, "first push should succeed")

	ok = f.Push(item("/page1", 2))
	assert.False(t, ok, "duplicate route should be rejected")

	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Pop_returns_breadth_first_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	f.Push(item("/deep", 2))
	f.Push(item("/b", 1))
	f.Push(item("/", 0))
	f.Push(item("/a", 1))

	var got []string
	for {
		it, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, it.Route)
	}

	assert.Equal(t, []string{"/", "/b", "/a", "/deep"}, got, "shallower first, then discovery order")
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	assert.Equal(t, 0, f.Len(), "new frontier should be empty")

	f.Push(item("/a", 1))
	assert.Equal(t, 1, f.Len())

	f.Push(item("/b", 1))
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())

	f.Pop()
	assert.Equal(t, 0, f.Len())

	_, ok := f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_Push_rejects_popped_routes(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	f.Push(item("/page", 1))
	f.Pop()

	assert.False(t, f.Push(item("/page", 2)), "popped route should not be queued again")
}

func TestFrontier_MarkSeen_drops_queued_item(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(item("/old", 1))
	f.Push(item("/new", 1))

	assert.True(t, f.MarkSeen("/new"), "queued route is marked once")
	assert.False(t, f.MarkSeen("/new"))
	assert.Equal(t, 1, f.Len())

	got, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "/old", got.Route)

	_, ok = f.Pop()
	assert.False(t, ok, "marked route should not pop")
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_MarkSeen_after_pop(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(item("/page", 1))
	f.Pop()

	assert.False(t, f.MarkSeen("/page"))
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_MarkSeen_blocks_later_push(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	assert.True(t, f.MarkSeen("/landing"))
	assert.False(t, f.MarkSeen("/landing"))
	assert.False(t, f.Push(item("/landing", 1)))
	assert.Equal(t, 0, f.Len(), "marked routes are not queued")
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	// Every pusher pushes the same routes; each must be accepted once.
	var accepted sync.Map
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				route := fmt.Sprintf("/%d", j)
				if f.Push(item(route, 1)) {
					if _, dup := accepted.LoadOrStore(route, true); dup {
						t.Errorf("route %s accepted twice", route)
					}
				}
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	for j := 0; j < numOpsPerGoroutine; j++ {
		route := fmt.Sprintf("/%d", j)
		assert.False(t, f.Push(item(route, 1)), "pushed route %s should be rejected", route)
	}
}
