package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"medrag/internal/port"
)

var bucketEmbeddings = []byte("embeddings")

// CachedEmbedder wraps an Embedder with a BoltDB cache keyed by model and
// text. Embeddings are deterministic per model, so entries never expire; a
// model change produces different keys and simply misses. Rebuilds against an
// unchanged corpus then cost zero provider calls.
type CachedEmbedder struct {
	inner port.Embedder
	db    *bbolt.DB
}

type storedEmbedding struct {
	Vector []float32 `json:"v"`
}

func NewCachedEmbedder(inner port.Embedder, db *bbolt.DB) (*CachedEmbedder, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings bucket: %w", err)
	}

	return &CachedEmbedder{inner: inner, db: db}, nil
}

func (c *CachedEmbedder) Embed(texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	var missIdx []int
	var missTexts []string

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		for i, text := range texts {
			data := b.Get(c.key(text))
			if data == nil {
				missIdx = append(missIdx, i)
				missTexts = append(missTexts, text)
				continue
			}
			var stored storedEmbedding
			if err := json.Unmarshal(data, &stored); err != nil {
				// Treat a corrupted entry as a miss.
				missIdx = append(missIdx, i)
				missTexts = append(missTexts, text)
				continue
			}
			results[i] = stored.Vector
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	fresh, err := c.inner.Embed(missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(fresh), len(missTexts))
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEmbeddings)
		for j, vec := range fresh {
			data, err := json.Marshal(storedEmbedding{Vector: vec})
			if err != nil {
				return err
			}
			if err := b.Put(c.key(missTexts[j]), data); err != nil {
				return err
			}
			results[missIdx[j]] = vec
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write embedding cache: %w", err)
	}

	return results, nil
}

func (c *CachedEmbedder) Dimension() int {
	return c.inner.Dimension()
}

func (c *CachedEmbedder) ModelName() string {
	return c.inner.ModelName()
}

func (c *CachedEmbedder) key(text string) []byte {
	hash := sha256.Sum256([]byte(c.inner.ModelName() + "\x00" + text))
	return hash[:]
}
