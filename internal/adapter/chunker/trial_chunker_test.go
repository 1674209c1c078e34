package chunker

import (
	"testing"

	"medrag/internal/domain"
)

func TestTrialChunkerFragments(t *testing.T) {
	trial := domain.TrialRecord{
		ID:           0,
		Title:        "Effects of Insulin Dosage on Diabetes Management",
		Condition:    "Type 2 Diabetes",
		Intervention: "Insulin Therapy",
		Eligibility:  "Adults aged 30-65 with Type 2 Diabetes",
	}

	fragments := NewTrialChunker().Chunk(trial)

	if len(fragments) != 5 {
		t.Fatalf("expected exactly 5 fragments, got %d", len(fragments))
	}

	want := []struct {
		aspect domain.Aspect
		text   string
	}{
		{domain.AspectTitle, "Title: Effects of Insulin Dosage on Diabetes Management"},
		{domain.AspectCondition, "Condition: Type 2 Diabetes"},
		{domain.AspectIntervention, "Intervention: Insulin Therapy"},
		{domain.AspectEligibility, "Eligibility: Adults aged 30-65 with Type 2 Diabetes"},
		{domain.AspectFull, "Title: Effects of Insulin Dosage on Diabetes Management. " +
			"Condition: Type 2 Diabetes. This trial studies Insulin Therapy for patients " +
			"with Type 2 Diabetes. Eligibility criteria: Adults aged 30-65 with Type 2 Diabetes"},
	}

	for i, w := range want {
		if fragments[i].Aspect != w.aspect {
			t.Errorf("fragment %d aspect = %q, want %q", i, fragments[i].Aspect, w.aspect)
		}
		if fragments[i].Text != w.text {
			t.Errorf("fragment %d text = %q, want %q", i, fragments[i].Text, w.text)
		}
	}
}
