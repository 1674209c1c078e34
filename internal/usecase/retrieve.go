package usecase

import (
	"strings"
	"unicode"

	"medrag/internal/adapter/analyzer"
	"medrag/internal/domain"
)

// Retriever composes the query heuristics with both stores into one retrieval
// call producing the grounding context for answer generation.
type Retriever struct {
	knowledge *KnowledgeStore
	trials    *TrialStore
	medicalK  int
	maxTrials int
}

func NewRetriever(knowledge *KnowledgeStore, trials *TrialStore, medicalK, maxTrials int) *Retriever {
	if medicalK <= 0 {
		medicalK = 4
	}
	if maxTrials <= 0 {
		maxTrials = 3
	}
	return &Retriever{
		knowledge: knowledge,
		trials:    trials,
		medicalK:  medicalK,
		maxTrials: maxTrials,
	}
}

// Retrieve expands the query, searches trials through a widening attempt list,
// searches the knowledge corpus, and classifies trial intent on the original
// query. Medical context is always returned; the trial list only when intent
// was detected — nil Trials means "not requested", an empty non-nil slice
// means "requested but nothing matched". Empty retrieval never errors; only a
// store that could not be queried at all does.
func (r *Retriever) Retrieve(query string) (domain.RetrievalResult, error) {
	expanded := analyzer.ExpandQuery(query)

	trials, err := r.findTrials(query, expanded)
	if err != nil {
		return domain.RetrievalResult{}, err
	}

	medical, err := r.knowledge.Search(expanded, r.medicalK)
	if err != nil {
		return domain.RetrievalResult{}, err
	}

	requested := analyzer.IsTrialRequest(query)
	result := domain.RetrievalResult{
		MedicalContext:  medical,
		TrialsRequested: requested,
	}
	if requested {
		if trials == nil {
			trials = []domain.ScoredTrial{}
		}
		result.Trials = trials
	}
	return result, nil
}

// findTrials works through an ordered list of fallback queries until one
// yields results or the list runs out. Each widening is best-effort; silence
// after all three attempts is acceptable. The widening attempts derive their
// terms from the original query, not the expanded one: expansion only appends
// context windows already containing those terms, and deriving from the
// original keeps the broad word list free of the duplicated fragments.
func (r *Retriever) findTrials(original, expanded string) ([]domain.ScoredTrial, error) {
	type attempt struct {
		query string
		k     int
	}

	attempts := []attempt{
		{query: expanded, k: r.maxTrials * 2},
	}
	if terms := analyzer.ExtractConditionTerms(original); len(terms) > 0 {
		attempts = append(attempts, attempt{query: strings.Join(terms, " "), k: r.maxTrials})
	}
	if broad := broadQuery(original); broad != "" {
		attempts = append(attempts, attempt{query: broad, k: r.maxTrials})
	}

	for _, a := range attempts {
		trials, err := r.trials.Search(a.query, a.k, r.maxTrials)
		if err != nil {
			return nil, err
		}
		if len(trials) > 0 {
			return trials, nil
		}
	}
	return nil, nil
}

// broadQuery keeps every query word longer than 3 bytes, lowercased — the
// coarsest widening before giving up.
func broadQuery(query string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var kept []string
	for _, w := range words {
		if len(w) > 3 {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
