package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/saiborg-ai/saiborg/internal/config"
	"github.com/saiborg-ai/saiborg/internal/respond"
	"github.com/saiborg-ai/saiborg/internal/store"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question from the indexed documents",
	Long: `Run the retrieval pipeline and the LLM for a single question,
without Slack. Useful for checking the index and prompts locally.

Examples:
  saiborg ask "Hvad er vores returpolitik?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(config.ModeIndex); err != nil {
		return err
	}

	question := args[0]
	ctx := context.Background()

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

	result, err := newRetriever(embedder, s).Retrieve(ctx, question)
	if err != nil {
		if errors.Is(err, store.ErrEmptyIndex) {
			fmt.Println(respond.ReplyNoKnowledgeBase)
			return nil
		}
		return err
	}

	reply, err := respond.New(model).DocAnswer(ctx, question, result.Context)
	if err != nil {
		return err
	}

	fmt.Println(reply)
	if len(result.Citations) > 0 {
		fmt.Println("\nKilder:")
		for _, c := range result.Citations {
			fmt.Printf("  - %s s.%d\n", c.Source, c.Page)
		}
	}
	return nil
}
