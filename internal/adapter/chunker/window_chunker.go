package chunker

import (
	"fmt"

	"medrag/internal/domain"
)

// WindowChunker splits text into fixed-size overlapping windows. Chunks feed a
// batch embedding step, so the sequence is fully materialized and identical
// input always yields identical chunks.
type WindowChunker struct {
	size    int
	overlap int
}

// NewWindowChunker validates the window geometry up front: overlap must be
// smaller than size or the stride goes non-positive and the scan never ends.
func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size %d: %w", size, domain.ErrInvalidConfig)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap %d with size %d: %w", overlap, size, domain.ErrInvalidConfig)
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// Chunk slides a window of the configured size across text with stride
// size-overlap. Text no longer than one window comes back whole. The final
// window is clipped to the end of the text, never overrun.
func (c *WindowChunker) Chunk(text string) []string {
	if len(text) <= c.size {
		return []string{text}
	}

	stride := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(text); start += stride {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
