// Package bot receives chat events and drives the per-turn pipeline:
// route, enrich with retrieval or CRM data, generate, reply.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saiborg-ai/saiborg/internal/llm"
	"github.com/saiborg-ai/saiborg/internal/metrics"
	"github.com/saiborg-ai/saiborg/internal/monday"
	"github.com/saiborg-ai/saiborg/internal/respond"
	"github.com/saiborg-ai/saiborg/internal/retrieval"
	"github.com/saiborg-ai/saiborg/internal/router"
	"github.com/saiborg-ai/saiborg/internal/store"
)

// Retriever assembles document context for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (retrieval.Result, error)
}

// CRM is the board client surface the pipeline needs.
type CRM interface {
	Search(ctx context.Context, text string) ([]monday.Item, error)
	ListAll(ctx context.Context) ([]monday.Item, error)
	Me(ctx context.Context) (monday.Account, error)
}

// Generator produces reply text for a routed turn.
type Generator interface {
	DocAnswer(ctx context.Context, question, docContext string) (string, error)
	CRMAnswer(ctx context.Context, intent router.Intent, userText string, items []monday.Item) (string, error)
}

// Handler runs one conversation turn from message text to reply text.
// It holds no per-turn state; a Turn exists only on the stack of HandleTurn.
type Handler struct {
	router      *router.Router
	retriever   Retriever
	crm         CRM // nil when no CRM key is configured
	gen         Generator
	logger      *slog.Logger
	collector   *metrics.Collector
	turnTimeout time.Duration
}

// NewHandler creates a turn handler. crm may be nil; CRM intents then get
// the "not configured" reply. turnTimeout falls back to 60s when
// non-positive.
func NewHandler(rt *router.Router, retriever Retriever, crm CRM, gen Generator,
	collector *metrics.Collector, turnTimeout time.Duration, logger *slog.Logger) *Handler {
	if turnTimeout <= 0 {
		turnTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Handler{
		router:      rt,
		retriever:   retriever,
		crm:         crm,
		gen:         gen,
		logger:      logger,
		collector:   collector,
		turnTimeout: turnTimeout,
	}
}

// HandleTurn processes one incoming message and always returns exactly one
// reply. Every pipeline error is converted here; nothing escapes to crash
// the event loop.
func (h *Handler) HandleTurn(ctx context.Context, text string) string {
	ctx, cancel := context.WithTimeout(ctx, h.turnTimeout)
	defer cancel()

	start := time.Now()
	reply, err := h.runTurn(ctx, text)
	h.collector.Record(metrics.OpTurn, time.Since(start), err != nil)

	if err != nil {
		h.logger.Error("turn failed", "error", err, "text_len", len(text))
		return failureReply(err)
	}
	return reply
}

func (h *Handler) runTurn(ctx context.Context, text string) (string, error) {
	decision := h.router.Route(text)
	h.logger.Info("routed message", "intent", string(decision.Intent), "entity", decision.Entity)

	switch decision.Intent {
	case router.IntentCRMPing:
		return h.crmPing(ctx)

	case router.IntentCRMOverview, router.IntentCRMSearch,
		router.IntentEmail, router.IntentMeetingPrep, router.IntentNextSteps:
		return h.crmTurn(ctx, decision, text)

	default:
		return h.docTurn(ctx, text)
	}
}

// crmPing answers the "monday test" connectivity check without the LLM.
func (h *Handler) crmPing(ctx context.Context) (string, error) {
	if h.crm == nil {
		return respond.ReplyCRMDisabled, nil
	}

	var account monday.Account
	err := h.collector.Time(metrics.OpCRM, func() error {
		var meErr error
		account, meErr = h.crm.Me(ctx)
		return meErr
	})
	if err != nil {
		if errors.Is(err, monday.ErrAuth) {
			return "❌ Jeg kunne ikke læse brugerinfo fra Monday – tjek API-nøglen.", nil
		}
		return "", err
	}
	return fmt.Sprintf("✅ Monday-forbindelse virker! Du er logget ind som: %s (%s)",
		account.Name, account.Email), nil
}

func (h *Handler) crmTurn(ctx context.Context, decision router.Decision, text string) (string, error) {
	if h.crm == nil {
		return respond.ReplyCRMDisabled, nil
	}

	var items []monday.Item
	err := h.collector.Time(metrics.OpCRM, func() error {
		var crmErr error
		if decision.AllItems {
			items, crmErr = h.crm.ListAll(ctx)
		} else {
			items, crmErr = h.crm.Search(ctx, decision.Entity)
		}
		return crmErr
	})
	if err != nil {
		return "", err
	}

	var reply string
	err = h.collector.Time(metrics.OpGenerate, func() error {
		var genErr error
		reply, genErr = h.gen.CRMAnswer(ctx, decision.Intent, text, items)
		return genErr
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (h *Handler) docTurn(ctx context.Context, text string) (string, error) {
	var result retrieval.Result
	err := h.collector.Time(metrics.OpRetrieval, func() error {
		var retErr error
		result, retErr = h.retriever.Retrieve(ctx, text)
		return retErr
	})
	if err != nil {
		return "", err
	}

	var reply string
	err = h.collector.Time(metrics.OpGenerate, func() error {
		var genErr error
		reply, genErr = h.gen.DocAnswer(ctx, text, result.Context)
		return genErr
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// failureReply maps a pipeline error onto the single user-facing reply for
// its kind. The default is deliberately generic; internals stay in the log.
func failureReply(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return respond.ReplyTimeout
	case errors.Is(err, store.ErrEmptyIndex):
		return respond.ReplyNoKnowledgeBase
	case errors.Is(err, monday.ErrAuth):
		return respond.ReplyServiceUnavailable
	case errors.Is(err, monday.ErrNetwork):
		return respond.ReplyCRMUnreachable
	case errors.Is(err, llm.ErrGenerate), errors.Is(err, llm.ErrEmbed):
		return respond.ReplyApology
	default:
		return respond.ReplyGenericError
	}
}
