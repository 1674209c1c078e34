package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and data sources",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Printf("Medical corpus:  %s\n", cfg.Data.MedicalPath)
	fmt.Printf("Trials corpus:   %s\n", cfg.Data.TrialsPath)
	fmt.Printf("Chunking:        size=%d overlap=%d\n", cfg.Chunking.Size, cfg.Chunking.Overlap)
	fmt.Printf("Retrieval:       medical_top_k=%d max_trials=%d\n", cfg.Retrieval.MedicalTopK, cfg.Retrieval.MaxTrials)
	fmt.Printf("Embedding:       provider=%s model=%s dim=%d cache=%v\n",
		cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimension, cfg.Embedding.Cache)
	fmt.Printf("LLM:             model=%s\n", cfg.LLM.Model)
	fmt.Printf("Server:          %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	return nil
}
