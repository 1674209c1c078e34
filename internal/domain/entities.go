package domain

// Document is one entry in the medical knowledge corpus. Content is immutable
// once loaded; relevance scores live on ScoredDocument, never here.
type Document struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// TrialRecord is one clinical trial in the trials corpus.
type TrialRecord struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Condition    string `json:"condition"`
	Intervention string `json:"intervention"`
	Eligibility  string `json:"eligibility"`
}

// Aspect tags which field of a trial a fragment was derived from.
type Aspect string

const (
	AspectTitle        Aspect = "title"
	AspectCondition    Aspect = "condition"
	AspectIntervention Aspect = "intervention"
	AspectEligibility  Aspect = "eligibility"
	AspectFull         Aspect = "full"
)

// Chunk is the unit of embedding and indexing. SourceID is a weak back
// reference into the owning corpus slice; the chunk's position in the store's
// chunk slice equals its vector's position in the index.
type Chunk struct {
	Text     string
	SourceID int
	Index    int
	Aspect   Aspect
}

type ScoredDocument struct {
	Document Document
	Score    float64
}

type ScoredTrial struct {
	Trial TrialRecord
	Score float64
}

// StoreStatus reports whether a store is built and how much it holds.
type StoreStatus struct {
	Built     bool
	Documents int
	Chunks    int
}

// BuildResult summarizes a successful store build.
type BuildResult struct {
	Documents int
	Chunks    int
}

// RetrievalResult is the grounding context handed to answer generation.
// Trials is nil when the query did not ask for trials; it is an empty non-nil
// slice when trials were requested but none matched.
type RetrievalResult struct {
	MedicalContext  []ScoredDocument
	Trials          []ScoredTrial
	TrialsRequested bool
}
