// Package respond builds per-intent prompts, invokes the LLM and formats
// replies for the chat channel.
package respond

import (
	"context"
	"fmt"
	"strings"

	"github.com/saiborg-ai/saiborg/internal/monday"
	"github.com/saiborg-ai/saiborg/internal/router"
)

// slackMessageLimit is the maximum reply length in runes. Slack truncates
// chat.postMessage text beyond roughly 4000 characters.
const slackMessageLimit = 4000

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator turns routed intents plus their data into reply text.
type Generator struct {
	llm   TextGenerator
	limit int
}

// New creates a generator writing replies bounded to the Slack message
// limit.
func New(llm TextGenerator) *Generator {
	return &Generator{llm: llm, limit: slackMessageLimit}
}

// DocAnswer answers a document question from retrieved context. The context
// may be empty; the template instructs the model to say so.
func (g *Generator) DocAnswer(ctx context.Context, question, docContext string) (string, error) {
	prompt := fmt.Sprintf(docQAPrompt, question, docContext)
	reply, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return g.sanitize(reply), nil
}

// CRMAnswer formats CRM items per the routed intent: summary for plain
// search/overview, or the email/meeting/next-steps variants.
func (g *Generator) CRMAnswer(ctx context.Context, intent router.Intent, userText string, items []monday.Item) (string, error) {
	if len(items) == 0 {
		return ReplyNoCustomerFound, nil
	}

	var template string
	switch intent {
	case router.IntentEmail:
		template = crmEmailPrompt
	case router.IntentMeetingPrep:
		template = crmMeetingPrompt
	case router.IntentNextSteps:
		template = crmNextStepsPrompt
	default:
		template = crmSummaryPrompt
	}

	prompt := fmt.Sprintf(template, serializeItems(items), userText)
	reply, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return g.sanitize(reply), nil
}

// serializeItems renders items as plain indented text, preserving the
// board's column order. The templates forbid the model from echoing IDs,
// but the ID is included so the model can disambiguate duplicate names.
func serializeItems(items []monday.Item) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (id %s)\n", item.Name, item.ID)
		for _, cv := range item.ColumnValues {
			if cv.Text == "" {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", cv.ID, cv.Text)
		}
	}
	return b.String()
}

// sanitize trims the reply and truncates it on a rune boundary to the
// channel's message limit.
func (g *Generator) sanitize(reply string) string {
	reply = strings.TrimSpace(reply)
	runes := []rune(reply)
	if len(runes) <= g.limit {
		return reply
	}
	return string(runes[:g.limit-1]) + "…"
}
