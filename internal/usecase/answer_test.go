package usecase

import (
	"strings"
	"testing"

	"medrag/internal/domain"
)

type fakeLLM struct {
	lastSystem string
	lastPrompt string
	reply      string
}

func (f *fakeLLM) Generate(prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, nil
}

func (f *fakeLLM) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastPrompt = userPrompt
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string { return "fake" }

func TestBuildPrompt(t *testing.T) {
	result := domain.RetrievalResult{
		MedicalContext: []domain.ScoredDocument{
			{Document: domain.Document{ID: 0, Content: "Diabetes is a chronic condition."}, Score: 0.91},
			{Document: domain.Document{ID: 1, Content: "Hypertension is high blood pressure."}, Score: 0.42},
		},
		Trials: []domain.ScoredTrial{
			{
				Trial: domain.TrialRecord{
					Title:        "Insulin Study",
					Condition:    "Diabetes",
					Intervention: "Insulin",
					Eligibility:  "Adults",
				},
				Score: 0.7456,
			},
		},
		TrialsRequested: true,
	}

	prompt := BuildPrompt("What about diabetes trials?", result)

	if !strings.HasPrefix(prompt, "Question: What about diabetes trials?\n\n") {
		t.Errorf("prompt must open with the question, got %q", prompt[:50])
	}
	if !strings.Contains(prompt, "1. Diabetes is a chronic condition.\n") {
		t.Error("missing first numbered medical passage")
	}
	if !strings.Contains(prompt, "2. Hypertension is high blood pressure.\n") {
		t.Error("missing second numbered medical passage")
	}
	if !strings.Contains(prompt, "1. Title: Insulin Study\n") {
		t.Error("missing trial block")
	}
	if !strings.Contains(prompt, "Relevance Score: 0.75\n") {
		t.Error("trial score must be rendered to two decimals")
	}
	if !strings.Contains(prompt, "Include relevant information about the clinical trials") {
		t.Error("missing trial instruction")
	}
}

func TestBuildPromptWithoutTrials(t *testing.T) {
	prompt := BuildPrompt("What causes asthma?", domain.RetrievalResult{
		MedicalContext: []domain.ScoredDocument{
			{Document: domain.Document{Content: "Asthma affects the airways."}, Score: 0.8},
		},
	})

	if strings.Contains(prompt, "clinical trials") {
		t.Error("prompt must not mention trials when none were retrieved")
	}
}

func TestAnswererUsesSystemPrompt(t *testing.T) {
	llm := &fakeLLM{reply: "  an answer  "}
	answerer := NewAnswerer(llm)

	answer, err := answerer.Answer("q", domain.RetrievalResult{})
	if err != nil {
		t.Fatal(err)
	}
	if answer != "an answer" {
		t.Errorf("answer not trimmed: %q", answer)
	}
	if !strings.Contains(llm.lastSystem, "helpful medical assistant") {
		t.Errorf("system prompt = %q", llm.lastSystem)
	}
	if !strings.Contains(llm.lastPrompt, "Question: q") {
		t.Errorf("user prompt = %q", llm.lastPrompt)
	}
}
