package crawl

import (
	"container/heap"
	"sync"
)

// Item is a URL waiting to be fetched.
type Item struct {
	URL   string
	Route string
	Depth int

	seq uint64
}

// Frontier is an in-memory URL frontier keyed by route. Items pop in
// breadth-first order: shallower depth first, then discovery order.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  map[string]struct{} // queued, popped or marked
	done  map[string]struct{} // popped or marked
	queue *itemHeap
	seq   uint64

	// stale counts queued items whose route was marked before they popped.
	stale int
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	h := &itemHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  make(map[string]struct{}),
		done:  make(map[string]struct{}),
		queue: h,
	}
}

// Push adds an item to the frontier.
// Returns false if the route has already been seen.
func (f *Frontier) Push(item Item) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[item.Route]; ok {
		return false
	}
	f.seen[item.Route] = struct{}{}

	item.seq = f.seq
	f.seq++
	heap.Push(f.queue, item)
	return true
}

// Pop returns the next item in breadth-first order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for f.queue.Len() > 0 {
		item, _ := heap.Pop(f.queue).(Item)
		if _, ok := f.done[item.Route]; ok {
			f.stale--
			continue
		}
		f.done[item.Route] = struct{}{}
		return item, true
	}
	return Item{}, false
}

// Len returns the number of items in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len() - f.stale
}

// MarkSeen records a route as visited. A later Push of the route is
// rejected and an item for it that is still queued is dropped.
// Returns false if the route was already popped or marked.
func (f *Frontier) MarkSeen(route string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.done[route]; ok {
		return false
	}
	f.done[route] = struct{}{}
	if _, queued := f.seen[route]; queued {
		f.stale++
	} else {
		f.seen[route] = struct{}{}
	}
	return true
}

// itemHeap implements heap.Interface as a min-heap on (depth, seq).
type itemHeap []Item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	item, _ := x.(Item)
	*h = append(*h, item)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
