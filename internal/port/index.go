package port

// NoMatch is the position returned for search slots that could not be
// filled because the index holds fewer vectors than requested.
const NoMatch = -1

// VectorIndex performs exact nearest-neighbor search by Euclidean
// distance over a fixed-dimension vector collection. Vectors are
// addressed by insertion position; position alignment with external
// metadata is the caller's responsibility.
type VectorIndex interface {
	// Add appends vectors in order. All vectors must match the index
	// dimension.
	Add(vectors [][]float32) error

	// Search returns exactly k (distance, position) pairs ordered by
	// non-decreasing distance. Slots beyond the number of stored
	// vectors carry position NoMatch.
	Search(query []float32, k int) (distances []float32, positions []int, err error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimension returns the vector dimension.
	Dimension() int
}
