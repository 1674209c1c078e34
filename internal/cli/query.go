package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"medrag/internal/domain"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one retrieval and print the grounding context",
	Long: `Build the indices if needed, run a single retrieval, and print the
ranked medical context (and trials when the query asks for them) as JSON.

Examples:
  medrag query -q "What causes diabetes?"
  medrag query -q "Are there any studies for hypertension?"`,
	RunE: runQuery,
}

var queryText string

func init() {
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(queryCmd)
}

// queryOutput mirrors RetrievalResult with stable JSON field names for
// scripting against the CLI.
type queryOutput struct {
	MedicalContext []scoredDocOutput   `json:"medical_context"`
	Trials         []scoredTrialOutput `json:"clinical_trials,omitempty"`
	TrialsAbsent   bool                `json:"trials_absent"`
}

type scoredDocOutput struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type scoredTrialOutput struct {
	Title        string  `json:"title"`
	Condition    string  `json:"condition"`
	Intervention string  `json:"intervention"`
	Eligibility  string  `json:"eligibility"`
	Score        float64 `json:"score"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	log := newLogger(cfg.Logging.Level)

	st, err := buildStores(cfg, rootDir, log)
	if err != nil {
		return err
	}
	defer st.close()

	if _, err := st.knowledge.Build(nil); err != nil {
		return err
	}
	if _, err := st.trials.Build(nil); err != nil {
		return err
	}

	result, err := st.retriever.Retrieve(queryText)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	return json.NewEncoder(os.Stdout).Encode(toQueryOutput(result))
}

func toQueryOutput(result domain.RetrievalResult) queryOutput {
	out := queryOutput{TrialsAbsent: !result.TrialsRequested}
	for _, doc := range result.MedicalContext {
		out.MedicalContext = append(out.MedicalContext, scoredDocOutput{
			Content: doc.Document.Content,
			Score:   doc.Score,
		})
	}
	if result.TrialsRequested {
		out.Trials = make([]scoredTrialOutput, 0, len(result.Trials))
		for _, st := range result.Trials {
			out.Trials = append(out.Trials, scoredTrialOutput{
				Title:        st.Trial.Title,
				Condition:    st.Trial.Condition,
				Intervention: st.Trial.Intervention,
				Eligibility:  st.Trial.Eligibility,
				Score:        st.Score,
			})
		}
	}
	return out
}
