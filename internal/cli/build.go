package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the medical and clinical-trial indices",
	Long: `Build both vector indices from the configured corpus files.
Missing corpus files fall back to the built-in sample data.

Examples:
  medrag build            # Build both indices
  medrag build --medical  # Build only the medical knowledge index`,
	RunE: runBuild,
}

var (
	buildMedicalOnly bool
	buildTrialsOnly  bool
)

func init() {
	buildCmd.Flags().BoolVar(&buildMedicalOnly, "medical", false, "build only the medical knowledge index")
	buildCmd.Flags().BoolVar(&buildTrialsOnly, "trials", false, "build only the clinical trials index")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := newLogger(cfg.Logging.Level)

	st, err := buildStores(cfg, rootDir, log)
	if err != nil {
		return err
	}
	defer st.close()

	all := !buildMedicalOnly && !buildTrialsOnly

	if all || buildMedicalOnly {
		fmt.Println("Building medical knowledge index...")
		result, err := st.knowledge.Build(progressCallback("Embedding"))
		if err != nil {
			return fmt.Errorf("medical index build failed: %w", err)
		}
		fmt.Printf("  Documents: %d\n  Chunks:    %d\n", result.Documents, result.Chunks)
	}

	if all || buildTrialsOnly {
		fmt.Println("Building clinical trials index...")
		result, err := st.trials.Build(progressCallback("Embedding"))
		if err != nil {
			return fmt.Errorf("trials index build failed: %w", err)
		}
		fmt.Printf("  Trials: %d\n  Chunks: %d\n", result.Documents, result.Chunks)
	}

	return nil
}

// progressCallback renders embedding progress for one store build. The bar is
// created lazily: the chunk total is only known once the corpus is loaded.
func progressCallback(desc string) func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription(desc),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}
}
