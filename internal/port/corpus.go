package port

import "medrag/internal/domain"

// DocumentSource loads the medical knowledge corpus. Implementations fall back
// to a built-in sample set on a missing or unreadable file, so Load reports an
// error only when even the fallback is unavailable.
type DocumentSource interface {
	Load() ([]domain.Document, error)
}

// TrialSource loads the clinical trials corpus, with the same fallback rule.
type TrialSource interface {
	Load() ([]domain.TrialRecord, error)
}
