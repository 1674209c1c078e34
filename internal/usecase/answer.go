package usecase

import (
	"fmt"
	"strings"

	"medrag/internal/domain"
	"medrag/internal/port"
)

const answerSystemPrompt = "You are a helpful medical assistant. " +
	"Provide accurate, informative responses to medical queries based on the provided context."

// DegradedAnswer is returned when no grounding is available because the
// knowledge base could not be built.
const DegradedAnswer = "Sorry, the medical knowledge base could not be initialized. " +
	"Please try rebuilding the indices using the /indices/build endpoint."

// Answerer turns retrieval results into a natural-language answer via the
// external text-generation provider.
type Answerer struct {
	llm port.LLM
}

func NewAnswerer(llm port.LLM) *Answerer {
	return &Answerer{llm: llm}
}

// Answer builds the grounding prompt from retrieved context and calls the
// model.
func (a *Answerer) Answer(query string, result domain.RetrievalResult) (string, error) {
	prompt := BuildPrompt(query, result)

	answer, err := a.llm.GenerateWithSystem(answerSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// BuildPrompt lays out the question, numbered medical passages, and, when
// trials were requested and found, one block per trial including its relevance
// score.
func BuildPrompt(query string, result domain.RetrievalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", query)

	if len(result.MedicalContext) > 0 {
		b.WriteString("Relevant medical information:\n")
		for i, doc := range result.MedicalContext {
			fmt.Fprintf(&b, "%d. %s\n", i+1, doc.Document.Content)
		}
		b.WriteString("\n")
	}

	if len(result.Trials) > 0 {
		b.WriteString("Relevant clinical trials:\n")
		for i, st := range result.Trials {
			fmt.Fprintf(&b, "%d. Title: %s\n", i+1, st.Trial.Title)
			fmt.Fprintf(&b, "   Condition: %s\n", st.Trial.Condition)
			fmt.Fprintf(&b, "   Intervention: %s\n", st.Trial.Intervention)
			fmt.Fprintf(&b, "   Eligibility: %s\n", st.Trial.Eligibility)
			fmt.Fprintf(&b, "   Relevance Score: %.2f\n", st.Score)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nPlease provide a helpful and informative answer to the question based on the provided information. ")
	if len(result.Trials) > 0 {
		b.WriteString("Include relevant information about the clinical trials if appropriate for the question.")
	}

	return b.String()
}
