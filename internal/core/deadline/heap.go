package deadline

import "time"

// instants is a container/heap min-heap of deadlines. Duplicates are kept;
// the heap carries instants only, not which toast they belong to.
type instants []time.Time

func (h instants) Len() int           { return len(h) }
func (h instants) Less(i, j int) bool { return h[i].Before(h[j]) }
func (h instants) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *instants) Push(x any) {
	*h = append(*h, x.(time.Time))
}

func (h *instants) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (h instants) peek() time.Time {
	return h[0]
}
