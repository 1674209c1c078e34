package cli

import (
	"fmt"
	"log/slog"

	"go.etcd.io/bbolt"

	"medrag/config"
	"medrag/internal/adapter/cache"
	"medrag/internal/adapter/chunker"
	"medrag/internal/adapter/corpus"
	"medrag/internal/adapter/embedding"
	"medrag/internal/port"
	"medrag/internal/usecase"
)

// stores bundles everything a command needs to query or build the service,
// plus the cleanup for the embedding cache database.
type stores struct {
	knowledge *usecase.KnowledgeStore
	trials    *usecase.TrialStore
	retriever *usecase.Retriever
	close     func() error
}

func buildStores(cfg *config.Config, dir string, log *slog.Logger) (*stores, error) {
	embedder, closeFn, err := newEmbedder(cfg, dir)
	if err != nil {
		return nil, err
	}

	windowChunker, err := chunker.NewWindowChunker(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("invalid chunking config: %w", err)
	}

	knowledge := usecase.NewKnowledgeStore(
		corpus.NewFileDocumentSource(cfg.Data.MedicalPath, log),
		embedder,
		windowChunker,
		cfg.Embedding.BatchSize,
	)
	trials := usecase.NewTrialStore(
		corpus.NewFileTrialSource(cfg.Data.TrialsPath, log),
		embedder,
		chunker.NewTrialChunker(),
		cfg.Embedding.BatchSize,
	)
	retriever := usecase.NewRetriever(knowledge, trials, cfg.Retrieval.MedicalTopK, cfg.Retrieval.MaxTrials)

	return &stores{
		knowledge: knowledge,
		trials:    trials,
		retriever: retriever,
		close:     func() error { closeFn(); return nil },
	}, nil
}

func newEmbedder(cfg *config.Config, dir string) (port.Embedder, func(), error) {
	var embedder port.Embedder
	var err error

	switch cfg.Embedding.Provider {
	case "mock":
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimension)
	default:
		embedder, err = newOpenAIEmbedder(cfg)
	}
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Embedding.Cache {
		return embedder, func() {}, nil
	}

	if err := config.EnsureStateDir(dir); err != nil {
		return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	db, err := bbolt.Open(config.EmbedCachePath(dir), 0600, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	cached, err := cache.NewCachedEmbedder(embedder, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return cached, func() { db.Close() }, nil
}

func newOpenAIEmbedder(cfg *config.Config) (port.Embedder, error) {
	if cfg.Embedding.BaseURL != "" {
		return embedding.NewCompatibleEmbedder(
			cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL,
			cfg.Embedding.Dimension, cfg.Embedding.BatchSize)
	}
	return embedding.NewOpenAIEmbedder(
		cfg.Embedding.APIKeyEnv, cfg.Embedding.Model,
		cfg.Embedding.Dimension, cfg.Embedding.BatchSize)
}
