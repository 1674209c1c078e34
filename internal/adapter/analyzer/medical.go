// Package analyzer holds the pure-text query heuristics: trial-intent
// detection, condition-term extraction, and query expansion. Everything here
// is an ordered table scan over lowercased text — intentionally a heuristic,
// not a classifier — so results are reproducible across builds.
package analyzer

import "strings"

// trialKeywords mark a query as explicitly trial-seeking. Scan order is fixed.
var trialKeywords = []string{
	"clinical trial", "clinical trials", "trials", "trial", "study", "studies",
	"research study", "research trial", "participating", "participate in",
	"enroll in", "treatment option", "experimental treatment",
}

// conditionTerms is the dictionary of condition and symptom keywords, specific
// conditions first, generic terms last. Extraction follows this scan order,
// not the term's position in the query.
var conditionTerms = []string{
	"diabetes", "hypertension", "blood pressure", "cancer", "arthritis",
	"asthma", "heart disease", "obesity", "depression", "anxiety",
	"alzheimer", "parkinson", "stroke", "copd", "allergies",
	"pain", "infection", "disease", "disorder", "syndrome",
}

// treatmentTerms signal implicit trial-seeking intent when combined with a
// condition term.
var treatmentTerms = []string{"treatment", "medication", "therapy", "options"}

// contextWindow is how many bytes of surrounding query text are kept on each
// side of a matched condition term.
const contextWindow = 20

// IsTrialRequest reports whether the query asks for clinical trials, either by
// an explicit trial keyword or implicitly by naming a condition together with
// a treatment-seeking term.
func IsTrialRequest(query string) bool {
	lower := strings.ToLower(query)

	for _, kw := range trialKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if len(ExtractConditionTerms(query)) > 0 {
		for _, term := range treatmentTerms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}

	return false
}

// ExtractConditionTerms returns, for each dictionary term present in the
// query, the surrounding context window around its first occurrence. A term
// absent from the query contributes nothing; no match at all yields nil.
func ExtractConditionTerms(query string) []string {
	lower := strings.ToLower(query)

	var terms []string
	for _, term := range conditionTerms {
		idx := strings.Index(lower, term)
		if idx < 0 {
			continue
		}
		start := idx - contextWindow
		if start < 0 {
			start = 0
		}
		end := idx + len(term) + contextWindow
		if end > len(query) {
			end = len(query)
		}
		terms = append(terms, strings.TrimSpace(query[start:end]))
	}
	return terms
}

// ExpandQuery appends the extracted condition contexts to the query, biasing
// the embedding toward the detected medical vocabulary. Queries without any
// dictionary match pass through unchanged.
func ExpandQuery(query string) string {
	terms := ExtractConditionTerms(query)
	if len(terms) == 0 {
		return query
	}
	return query + " " + strings.Join(terms, " ")
}
