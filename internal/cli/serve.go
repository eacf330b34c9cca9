package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/saiborg-ai/saiborg/internal/bot"
	"github.com/saiborg-ai/saiborg/internal/config"
	"github.com/saiborg-ai/saiborg/internal/metrics"
	"github.com/saiborg-ai/saiborg/internal/monday"
	"github.com/saiborg-ai/saiborg/internal/respond"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Slack bot",
	Long: `Connect to Slack over socket mode and answer mentions until
interrupted.

Requires SLACK_BOT_TOKEN, SLACK_APP_TOKEN and the LLM credential for the
configured provider (GOOGLE_API_KEY by default). MONDAY_API_KEY is
optional; without it CRM intents reply that CRM is not configured.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Startup configuration errors are fatal with a clear diagnostic.
	if err := cfg.Validate(config.ModeServe); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	embedder, err := newEmbedder(ctx)
	if err != nil {
		return err
	}
	model, err := newModel(ctx)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	if s.Count() == 0 {
		logger.Warn("vector store is empty - document questions get the 'no knowledge base' reply",
			"path", s.Path())
	} else {
		logger.Info("vector store loaded", "path", s.Path(), "chunks", s.Count())
	}

	rt, err := newRouter()
	if err != nil {
		return err
	}

	crm, err := newCRM()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	handler := bot.NewHandler(rt, newRetriever(embedder, s), crmOrNil(crm), respond.New(model),
		collector, cfg.TurnTimeout, logger)

	gateway, err := bot.NewGateway(cfg.SlackBotToken, cfg.SlackAppToken, handler, logger)
	if err != nil {
		return fmt.Errorf("connect to slack: %w", err)
	}

	logger.Info("saiborg is online", "model", model.Model(), "crm_enabled", crm != nil)

	err = gateway.Run(ctx)

	logger.Info("shutting down", "uptime", collector.Uptime().Round(time.Second).String())
	collector.LogSummary(logger)

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("slack event loop: %w", err)
	}
	return nil
}

// crmOrNil converts a possibly-nil concrete client into the handler's
// interface without producing a non-nil interface holding a nil pointer.
func crmOrNil(c *monday.Client) bot.CRM {
	if c == nil {
		return nil
	}
	return c
}
