package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"medrag/internal/adapter/llm"
	"medrag/internal/server"
	"medrag/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP service: POST /analyze answers medical queries with
retrieved grounding context; /indices/build, /indices/status and
/indices/rebuild manage the vector indices.

Indices are built on startup; a failed build does not prevent the server from
starting, since /analyze retries the build lazily.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger(cfg.Logging.Level)

	st, err := buildStores(cfg, rootDir, log)
	if err != nil {
		return err
	}
	defer st.close()

	client, err := llm.NewClient(cfg.LLM.APIKeyEnv, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.Temperature)
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	if _, err := st.knowledge.Build(nil); err != nil {
		log.Warn("medical index not built at startup", "error", err)
	}
	if _, err := st.trials.Build(nil); err != nil {
		log.Warn("trials index not built at startup", "error", err)
	}

	srv := server.New(st.knowledge, st.trials, st.retriever, usecase.NewAnswerer(client), log)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return srv.ListenAndServe(addr)
}
