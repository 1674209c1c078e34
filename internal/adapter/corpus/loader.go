// Package corpus loads the medical knowledge and clinical trial corpora from
// JSON files, falling back to built-in samples when a file is missing or
// malformed so the service always has something to index.
package corpus

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"medrag/internal/domain"
)

// FileDocumentSource reads documents from the first JSON file matching a glob
// pattern (plain paths work too).
type FileDocumentSource struct {
	pattern string
	log     *slog.Logger
}

func NewFileDocumentSource(pattern string, log *slog.Logger) *FileDocumentSource {
	if log == nil {
		log = slog.Default()
	}
	return &FileDocumentSource{pattern: pattern, log: log}
}

type documentRecord struct {
	Content string `json:"content"`
}

func (s *FileDocumentSource) Load() ([]domain.Document, error) {
	data, ok := s.read()
	if !ok {
		return SampleDocuments(), nil
	}

	var records []documentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("failed to parse medical corpus, using sample data",
			"pattern", s.pattern, "error", err)
		return SampleDocuments(), nil
	}

	docs := make([]domain.Document, len(records))
	for i, r := range records {
		docs[i] = domain.Document{ID: i, Content: r.Content}
	}
	s.log.Info("loaded medical corpus", "documents", len(docs))
	return docs, nil
}

func (s *FileDocumentSource) read() ([]byte, bool) {
	path, ok := resolvePattern(s.pattern)
	if !ok {
		s.log.Warn("medical corpus file not found, using sample data", "pattern", s.pattern)
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("failed to read medical corpus, using sample data", "path", path, "error", err)
		return nil, false
	}
	return data, true
}

// FileTrialSource reads clinical trials the same way.
type FileTrialSource struct {
	pattern string
	log     *slog.Logger
}

func NewFileTrialSource(pattern string, log *slog.Logger) *FileTrialSource {
	if log == nil {
		log = slog.Default()
	}
	return &FileTrialSource{pattern: pattern, log: log}
}

type trialRecord struct {
	Title        string `json:"title"`
	Condition    string `json:"condition"`
	Intervention string `json:"intervention"`
	Eligibility  string `json:"eligibility"`
}

func (s *FileTrialSource) Load() ([]domain.TrialRecord, error) {
	path, ok := resolvePattern(s.pattern)
	if !ok {
		s.log.Warn("trials file not found, using sample data", "pattern", s.pattern)
		return SampleTrials(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("failed to read trials file, using sample data", "path", path, "error", err)
		return SampleTrials(), nil
	}

	var records []trialRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("failed to parse trials file, using sample data", "path", path, "error", err)
		return SampleTrials(), nil
	}

	trials := make([]domain.TrialRecord, len(records))
	for i, r := range records {
		trials[i] = domain.TrialRecord{
			ID:           i,
			Title:        r.Title,
			Condition:    r.Condition,
			Intervention: r.Intervention,
			Eligibility:  r.Eligibility,
		}
	}
	s.log.Info("loaded clinical trials", "trials", len(trials))
	return trials, nil
}

// resolvePattern expands a doublestar glob and returns the first match in
// lexical order, so corpus selection is deterministic.
func resolvePattern(pattern string) (string, bool) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil || len(matches) == 0 {
		// A plain path with no glob metacharacters still matches itself when
		// the file exists, so a miss here means the file is absent.
		if _, statErr := os.Stat(pattern); statErr == nil {
			return pattern, true
		}
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}
