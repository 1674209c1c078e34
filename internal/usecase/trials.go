package usecase

import (
	"sort"
	"sync"

	"medrag/internal/adapter/chunker"
	"medrag/internal/adapter/vectorindex"
	"medrag/internal/domain"
	"medrag/internal/port"
)

// TrialStore owns the clinical trials corpus. Each trial is indexed as five
// aspect fragments, and search consolidates fragment hits back into one result
// per trial carrying the best fragment's score. Note the asymmetry with
// KnowledgeStore, which keeps the first hit per document: a trial may match on
// its condition fragment for one query and its eligibility fragment for
// another, and the reported score is always the best aspect's.
type TrialStore struct {
	source    port.TrialSource
	embedder  port.Embedder
	chunker   *chunker.TrialChunker
	batchSize int

	mu   sync.RWMutex
	snap *trialSnapshot
}

type trialSnapshot struct {
	trials []domain.TrialRecord
	chunks []domain.Chunk
	index  port.VectorIndex
}

func NewTrialStore(source port.TrialSource, embedder port.Embedder, chk *chunker.TrialChunker, batchSize int) *TrialStore {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &TrialStore{
		source:    source,
		embedder:  embedder,
		chunker:   chk,
		batchSize: batchSize,
	}
}

// Build loads the trials, fragments each one, embeds and indexes the
// fragments. All-or-nothing: a failed build leaves the prior snapshot intact.
func (s *TrialStore) Build(progress ProgressFunc) (domain.BuildResult, error) {
	trials, err := s.source.Load()
	if err != nil {
		return domain.BuildResult{}, &domain.BuildError{Store: "trials", Err: err}
	}

	var chunks []domain.Chunk
	for _, trial := range trials {
		for j, frag := range s.chunker.Chunk(trial) {
			chunks = append(chunks, domain.Chunk{
				Text:     frag.Text,
				SourceID: trial.ID,
				Index:    j,
				Aspect:   frag.Aspect,
			})
		}
	}

	vectors, err := embedChunks(s.embedder, chunks, s.batchSize, progress)
	if err != nil {
		return domain.BuildResult{}, &domain.BuildError{Store: "trials", Err: err}
	}

	index, err := vectorindex.NewFlat(vectors)
	if err != nil {
		return domain.BuildResult{}, &domain.BuildError{Store: "trials", Err: err}
	}

	s.mu.Lock()
	s.snap = &trialSnapshot{trials: trials, chunks: chunks, index: index}
	s.mu.Unlock()

	return domain.BuildResult{Documents: len(trials), Chunks: len(chunks)}, nil
}

func (s *TrialStore) Status() domain.StoreStatus {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap == nil {
		return domain.StoreStatus{}
	}
	return domain.StoreStatus{
		Built:     true,
		Documents: len(snap.trials),
		Chunks:    len(snap.chunks),
	}
}

// Search queries the index with k raw fragment hits (callers over-fetch, since
// several fragments of one trial compete for the same slots), consolidates by
// trial id keeping the maximum fragment score, sorts descending, and clips to
// limit. An unbuilt store yields no results and no error.
func (s *TrialStore) Search(query string, k, limit int) ([]domain.ScoredTrial, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap == nil || snap.index.Size() == 0 {
		return nil, nil
	}

	queryVec, err := embedQuery(s.embedder, query)
	if err != nil {
		return nil, err
	}

	hits, err := snap.index.Search(queryVec, k)
	if err != nil {
		return nil, err
	}

	best := make(map[int]float64)
	for _, hit := range hits {
		trialID := snap.chunks[hit.Position].SourceID
		if score, ok := best[trialID]; !ok || hit.Score > score {
			best[trialID] = hit.Score
		}
	}

	// Walk the trial slice rather than the map so equal scores order
	// deterministically by trial id.
	var results []domain.ScoredTrial
	for _, trial := range snap.trials {
		score, ok := best[trial.ID]
		if !ok {
			continue
		}
		results = append(results, domain.ScoredTrial{Trial: trial, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
