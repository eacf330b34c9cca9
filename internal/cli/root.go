// Package cli provides the command-line interface for saiborg.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/saiborg-ai/saiborg/internal/config"
	"github.com/saiborg-ai/saiborg/internal/llm"
	"github.com/saiborg-ai/saiborg/internal/monday"
	"github.com/saiborg-ai/saiborg/internal/retrieval"
	"github.com/saiborg-ai/saiborg/internal/router"
	"github.com/saiborg-ai/saiborg/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and logger, loaded once per invocation.
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "saiborg",
	Short: "Slack assistant for document Q&A and Monday CRM lookups",
	Long: `Saiborg is a Slack assistant that answers questions from indexed PDF
documents (retrieval-augmented generation) and looks up customers and
leads on a Monday.com board.

Run 'saiborg index' to build the document store, then 'saiborg serve' to
connect the bot. Credentials come from the environment or a .env file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env first, so config.Load sees its values.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(crmCmd)
}

// newEmbedder builds the embedding client for the configured provider.
func newEmbedder(ctx context.Context) (*llm.Embedder, error) {
	embedder, err := llm.NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return embedder, nil
}

// newModel builds the generation client for the configured provider.
func newModel(ctx context.Context) (*llm.Model, error) {
	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}
	return model, nil
}

// openStore opens the vector store at the configured path.
func openStore() (*store.Store, error) {
	s, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// newRetriever wires the retrieval pipeline over the store and embedder.
func newRetriever(embedder *llm.Embedder, s *store.Store) *retrieval.Pipeline {
	return retrieval.New(embedder, s, cfg.TopK, cfg.ContextBudget, logger)
}

// newRouter loads routing rules, from the configured rules file when set.
func newRouter() (*router.Router, error) {
	rules := router.DefaultRules()
	if cfg.RouterRulesPath != "" {
		loaded, err := router.LoadRules(cfg.RouterRulesPath)
		if err != nil {
			return nil, fmt.Errorf("load router rules: %w", err)
		}
		rules = loaded
		logger.Info("loaded router rules", "path", cfg.RouterRulesPath)
	}
	return router.New(rules), nil
}

// newCRM builds the Monday client, or returns nil when no key is
// configured (CRM features disabled).
func newCRM() (*monday.Client, error) {
	if !cfg.CRMEnabled() {
		logger.Warn("MONDAY_API_KEY missing - CRM features disabled")
		return nil, nil
	}
	client, err := monday.New(monday.Config{
		APIKey:  cfg.MondayAPIKey,
		APIURL:  cfg.MondayAPIURL,
		BoardID: cfg.MondayBoardID,
		Timeout: cfg.MondayTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init monday client: %w", err)
	}
	return client, nil
}
