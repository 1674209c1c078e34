package usecase

import (
	"fmt"
	"sort"
	"sync"

	"medrag/internal/adapter/chunker"
	"medrag/internal/adapter/vectorindex"
	"medrag/internal/domain"
	"medrag/internal/port"
)

// ProgressFunc reports build progress as chunks are embedded.
type ProgressFunc func(done, total int)

// KnowledgeStore owns the medical reference corpus: documents, their chunks,
// and the vector index over them, held together as one immutable snapshot.
// Build assembles a fresh snapshot off-lock and swaps it in atomically, so
// concurrent searches always observe a fully built store or none at all.
type KnowledgeStore struct {
	source    port.DocumentSource
	embedder  port.Embedder
	chunker   *chunker.WindowChunker
	batchSize int

	mu   sync.RWMutex
	snap *knowledgeSnapshot
}

type knowledgeSnapshot struct {
	docs   []domain.Document
	byID   map[int]int
	chunks []domain.Chunk
	index  port.VectorIndex
}

func NewKnowledgeStore(source port.DocumentSource, embedder port.Embedder, chk *chunker.WindowChunker, batchSize int) *KnowledgeStore {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &KnowledgeStore{
		source:    source,
		embedder:  embedder,
		chunker:   chk,
		batchSize: batchSize,
	}
}

// Build loads the corpus, chunks every document, embeds and normalizes the
// chunks, and indexes them. On any failure the previous snapshot stays in
// place. progress may be nil.
func (s *KnowledgeStore) Build(progress ProgressFunc) (domain.BuildResult, error) {
	docs, err := s.source.Load()
	if err != nil {
		return domain.BuildResult{}, &domain.BuildError{Store: "medical", Err: err}
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		for j, text := range s.chunker.Chunk(doc.Content) {
			chunks = append(chunks, domain.Chunk{
				Text:     text,
				SourceID: doc.ID,
				Index:    j,
			})
		}
	}

	vectors, err := embedChunks(s.embedder, chunks, s.batchSize, progress)
	if err != nil {
		return domain.BuildResult{}, &domain.BuildError{Store: "medical", Err: err}
	}

	index, err := vectorindex.NewFlat(vectors)
	if err != nil {
		return domain.BuildResult{}, &domain.BuildError{Store: "medical", Err: err}
	}

	byID := make(map[int]int, len(docs))
	for i, doc := range docs {
		byID[doc.ID] = i
	}

	s.mu.Lock()
	s.snap = &knowledgeSnapshot{docs: docs, byID: byID, chunks: chunks, index: index}
	s.mu.Unlock()

	return domain.BuildResult{Documents: len(docs), Chunks: len(chunks)}, nil
}

func (s *KnowledgeStore) Status() domain.StoreStatus {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	if snap == nil {
		return domain.StoreStatus{}
	}
	return domain.StoreStatus{
		Built:     true,
		Documents: len(snap.docs),
		Chunks:    len(snap.chunks),
	}
}

// Search returns the top documents for the query, deduplicated by document:
// multiple chunk hits from one document collapse to the first (and therefore
// highest-scoring) occurrence. An unbuilt or empty store yields no results and
// no error; absent grounding is a normal condition.
func (s *KnowledgeStore) Search(query string, k int) ([]domain.ScoredDocument, error) {
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

	seen := make(map[int]bool)
	var results []domain.ScoredDocument
	for _, hit := range hits {
		docID := snap.chunks[hit.Position].SourceID
		if seen[docID] {
			continue
		}
		pos, ok := snap.byID[docID]
		if !ok {
			continue
		}
		seen[docID] = true
		results = append(results, domain.ScoredDocument{
			Document: snap.docs[pos],
			Score:    hit.Score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// embedChunks embeds chunk texts in batches, normalizing each vector so index
// scores are cosine similarities.
func embedChunks(embedder port.Embedder, chunks []domain.Chunk, batchSize int, progress ProgressFunc) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := embedder.Embed(texts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(batch), len(texts))
		}

		for _, vec := range batch {
			vectors = append(vectors, vectorindex.Normalize(vec))
		}
		if progress != nil {
			progress(end, len(chunks))
		}
	}
	return vectors, nil
}

func embedQuery(embedder port.Embedder, query string) ([]float32, error) {
	vecs, err := embedder.Embed([]string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	return vectorindex.Normalize(vecs[0]), nil
}
