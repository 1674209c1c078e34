package vectorindex

import (
	"fmt"
	"math"
	"sort"

	"medrag/internal/domain"
	"medrag/internal/port"
)

// Flat is an exact inner-product index over unit-normalized vectors. On
// normalized inputs the inner product equals cosine similarity. Brute force is
// the right trade at this corpus size (hundreds to low thousands of chunks);
// swap in an ANN structure behind port.VectorIndex for anything bigger.
type Flat struct {
	dim     int
	vectors [][]float32
}

// NewFlat builds an index from pre-normalized vectors. Dimensionality is fixed
// by the first vector; empty vectors and any later mismatch fail the build.
func NewFlat(vectors [][]float32) (*Flat, error) {
	f := &Flat{}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("vector %d is empty: %w", i, domain.ErrDimensionMismatch)
		}
		if i == 0 {
			f.dim = len(v)
		}
		if len(v) != f.dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d: %w",
				i, len(v), f.dim, domain.ErrDimensionMismatch)
		}
		f.vectors = append(f.vectors, v)
	}
	return f, nil
}

func (f *Flat) Size() int {
	return len(f.vectors)
}

func (f *Flat) Dimension() int {
	return f.dim
}

// Search returns the top-k vectors by inner product, descending, ties broken
// by ascending position so results are deterministic.
func (f *Flat) Search(query []float32, k int) ([]port.Hit, error) {
	if len(f.vectors) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("query has dimension %d, want %d: %w",
			len(query), f.dim, domain.ErrDimensionMismatch)
	}

	hits := make([]port.Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = port.Hit{Position: i, Score: dot(query, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Position < hits[j].Position
	})

	if k < 0 {
		k = 0
	}
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Normalize scales a vector to unit L2 norm. Zero vectors are returned
// unchanged rather than divided by zero.
func Normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
