// Package index provides the vector index used by the knowledge base:
// a flat (brute-force) structure searched exhaustively by squared
// Euclidean distance.
package index

import (
	"container/heap"
	"fmt"
	"math"
	"sync"

	"kalebbot/internal/port"
)

// FlatL2 is an exact nearest-neighbor index over fixed-dimension
// float32 vectors. Vectors are addressed by insertion position.
// Safe for concurrent readers; writers must not run concurrently
// with readers in the same process.
type FlatL2 struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
}

var _ port.VectorIndex = (*FlatL2)(nil)

// NewFlatL2 creates an empty flat index for the given dimension.
func NewFlatL2(dimension int) (*FlatL2, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid index dimension: %d", dimension)
	}
	return &FlatL2{dimension: dimension}, nil
}

// Add appends vectors in order, preserving positional alignment with
// whatever metadata the caller keeps alongside.
func (idx *FlatL2) Add(vectors [][]float32) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, v := range vectors {
		if len(v) != idx.dimension {
			return fmt.Errorf("vector %d dimension mismatch: expected %d, got %d", i, idx.dimension, len(v))
		}
	}
	idx.vectors = append(idx.vectors, vectors...)
	return nil
}

// Search returns exactly k (distance, position) pairs ordered by
// non-decreasing squared L2 distance. When the index holds fewer than
// k vectors, the remaining slots carry distance +Inf and position
// port.NoMatch.
func (idx *FlatL2) Search(query []float32, k int) ([]float32, []int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(query) != idx.dimension {
		return nil, nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", idx.dimension, len(query))
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("invalid k: %d", k)
	}

	// Max-heap of the k best candidates seen so far; the root is the
	// worst of the current best, so it can be evicted cheaply.
	h := &candidateHeap{}
	heap.Init(h)

	for pos, v := range idx.vectors {
		d := squaredL2(query, v)
		if h.Len() < k {
			heap.Push(h, candidate{distance: d, position: pos})
		} else if d < (*h)[0].distance {
			heap.Pop(h)
			heap.Push(h, candidate{distance: d, position: pos})
		}
	}

	distances := make([]float32, k)
	positions := make([]int, k)
	for i := range positions {
		distances[i] = float32(math.Inf(1))
		positions[i] = port.NoMatch
	}

	// Drain the heap backwards so position 0 ends up closest.
	for i := h.Len() - 1; i >= 0; i-- {
		c := heap.Pop(h).(candidate)
		distances[i] = c.distance
		positions[i] = c.position
	}

	return distances, positions, nil
}

// Len returns the number of stored vectors.
func (idx *FlatL2) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimension returns the vector dimension.
func (idx *FlatL2) Dimension() int {
	return idx.dimension
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

type candidate struct {
	distance float32
	position int
}

type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].distance > h[j].distance }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
