package usecase

import (
	"errors"
	"hash/fnv"
	"strings"
	"unicode"

	"medrag/internal/domain"
)

// stubEmbedder returns fixed vectors per exact text; unknown texts get a zero
// vector. Used where tests need full control over similarity scores.
type stubEmbedder struct {
	vecs map[string][]float32
	dim  int
}

func (e *stubEmbedder) Embed(texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := e.vecs[t]; ok {
			out[i] = v
		} else {
			out[i] = make([]float32, e.dim)
		}
	}
	return out, nil
}

func (e *stubEmbedder) Dimension() int    { return e.dim }
func (e *stubEmbedder) ModelName() string { return "stub" }

// bowEmbedder hashes lowercased words into a fixed-size bag-of-words vector,
// so texts sharing vocabulary score high under cosine. Deterministic, offline,
// and good enough to rank the sample corpus sensibly.
type bowEmbedder struct {
	dim int
}

func (e *bowEmbedder) Embed(texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dim)
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, w := range words {
			h := fnv.New32a()
			h.Write([]byte(w))
			vec[h.Sum32()%uint32(e.dim)]++
		}
		out[i] = vec
	}
	return out, nil
}

func (e *bowEmbedder) Dimension() int    { return e.dim }
func (e *bowEmbedder) ModelName() string { return "bow" }

// failingEmbedder simulates a provider outage.
type failingEmbedder struct{}

func (e *failingEmbedder) Embed(texts []string) ([][]float32, error) {
	return nil, errors.New("provider unavailable")
}

func (e *failingEmbedder) Dimension() int    { return 2 }
func (e *failingEmbedder) ModelName() string { return "failing" }

type docSource []domain.Document

func (s docSource) Load() ([]domain.Document, error) { return s, nil }

type trialSource []domain.TrialRecord

func (s trialSource) Load() ([]domain.TrialRecord, error) { return s, nil }
