package chunker

import (
	"errors"
	"strings"
	"testing"

	"medrag/internal/domain"
)

func TestWindowChunkerShortText(t *testing.T) {
	c, err := NewWindowChunker(200, 50)
	if err != nil {
		t.Fatal(err)
	}

	text := "short text"
	chunks := c.Chunk(text)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected whole text back, got %q", chunks[0])
	}
}

func TestWindowChunkerExactSize(t *testing.T) {
	c, err := NewWindowChunker(10, 3)
	if err != nil {
		t.Fatal(err)
	}

	chunks := c.Chunk("0123456789")
	if len(chunks) != 1 {
		t.Fatalf("text of exactly window size should be one chunk, got %d", len(chunks))
	}
}

func TestWindowChunkerCoverage(t *testing.T) {
	size, overlap := 10, 4
	c, err := NewWindowChunker(size, overlap)
	if err != nil {
		t.Fatal(err)
	}

	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := c.Chunk(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Every chunk except the last is exactly window-sized; the last ends at
	// the end of the text.
	stride := size - overlap
	for i, chunk := range chunks[:len(chunks)-1] {
		if len(chunk) != size {
			t.Errorf("chunk %d has length %d, want %d", i, len(chunk), size)
		}
		if chunk != text[i*stride:i*stride+size] {
			t.Errorf("chunk %d = %q, want window at offset %d", i, chunk, i*stride)
		}
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Errorf("last chunk %q does not end at the text's end", last)
	}

	// Concatenating each chunk's non-overlapping region reconstructs the text.
	var rebuilt strings.Builder
	prevEnd := 0
	for i, chunk := range chunks {
		start := i * stride
		fresh := prevEnd - start
		if fresh < 0 {
			fresh = 0
		}
		if fresh <= len(chunk) {
			rebuilt.WriteString(chunk[fresh:])
		}
		prevEnd = start + len(chunk)
	}
	if rebuilt.String() != text {
		t.Errorf("reconstruction = %q, want %q", rebuilt.String(), text)
	}
}

func TestWindowChunkerDeterminism(t *testing.T) {
	c, err := NewWindowChunker(8, 2)
	if err != nil {
		t.Fatal(err)
	}

	text := "the quick brown fox jumps over the lazy dog"
	first := c.Chunk(text)
	second := c.Chunk(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestWindowChunkerInvalidConfig(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 50, 50},
		{"overlap exceeds size", 50, 60},
		{"zero size", 0, 0},
		{"negative overlap", 50, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWindowChunker(tc.size, tc.overlap)
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
