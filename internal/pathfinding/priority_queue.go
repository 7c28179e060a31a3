package pathfinding

import (
	"github.com/zyedidia/generic/heap"
)

// searchNode is an open-list entry. f, g and h are kept separately so that
// equal f values can be broken on h.
type searchNode struct {
	index int
	g     float64
	h     float64
	f     float64
	seq   uint64 // insertion order, last tie-break
}

// nodeLess orders by ascending f, then h, then insertion order
func nodeLess(a, b searchNode) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

// openList is a min-heap of search nodes that keeps its backing storage
// between searches
type openList struct {
	heap *heap.Heap[searchNode]
	seq  uint64
}

func newOpenList() *openList {
	return &openList{heap: heap.New[searchNode](nodeLess)}
}

func (o *openList) push(n searchNode) {
	o.seq++
	n.seq = o.seq
	o.heap.Push(n)
}

func (o *openList) pop() (searchNode, bool) {
	return o.heap.Pop()
}

func (o *openList) len() int {
	return o.heap.Size()
}

// reset empties the list without releasing its storage
func (o *openList) reset() {
	for o.heap.Size() > 0 {
		o.heap.Pop()
	}
	o.seq = 0
}

// parentRecord is the best known way into a cell during one search
type parentRecord struct {
	parent int
	g      float64
}

const noParent = -1
