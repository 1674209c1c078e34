package port

// VectorIndex is an immutable nearest-neighbor index over unit-normalized
// vectors. The flat adapter searches exactly; an approximate structure may
// substitute behind this interface without touching any caller.
type VectorIndex interface {
	// Search returns up to k hits ordered by descending score, ties broken by
	// ascending position.
	Search(query []float32, k int) ([]Hit, error)

	// Size returns the number of indexed vectors.
	Size() int

	// Dimension returns the vector dimensionality fixed at build.
	Dimension() int
}

// Hit joins a search score to the ordinal position of the matching vector,
// which is also the position of its chunk in the owning store.
type Hit struct {
	Position int
	Score    float64
}
