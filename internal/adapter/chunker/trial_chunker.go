package chunker

import (
	"fmt"

	"medrag/internal/domain"
)

// Fragment is one aspect-tagged piece of a trial record.
type Fragment struct {
	Text   string
	Aspect domain.Aspect
}

// TrialChunker fragments a trial into one chunk per field plus a templated
// full-record passage. The fragment formats are part of the index's semantic
// contract: a rebuild with different templates would not produce comparable
// scores, so they are fixed here and nowhere else.
type TrialChunker struct{}

func NewTrialChunker() *TrialChunker {
	return &TrialChunker{}
}

// Chunk emits exactly five fragments in fixed order: title, condition,
// intervention, eligibility, full.
func (c *TrialChunker) Chunk(trial domain.TrialRecord) []Fragment {
	return []Fragment{
		{Text: fmt.Sprintf("Title: %s", trial.Title), Aspect: domain.AspectTitle},
		{Text: fmt.Sprintf("Condition: %s", trial.Condition), Aspect: domain.AspectCondition},
		{Text: fmt.Sprintf("Intervention: %s", trial.Intervention), Aspect: domain.AspectIntervention},
		{Text: fmt.Sprintf("Eligibility: %s", trial.Eligibility), Aspect: domain.AspectEligibility},
		{
			Text: fmt.Sprintf(
				"Title: %s. Condition: %s. This trial studies %s for patients with %s. Eligibility criteria: %s",
				trial.Title, trial.Condition, trial.Intervention, trial.Condition, trial.Eligibility),
			Aspect: domain.AspectFull,
		},
	}
}
