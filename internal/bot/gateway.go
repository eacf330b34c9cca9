package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/saiborg-ai/saiborg/internal/respond"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// Gateway subscribes to Slack mention events over socket mode and runs the
// turn handler for each, replying in the originating thread.
type Gateway struct {
	api       *slack.Client
	client    *socketmode.Client
	handler   *Handler
	logger    *slog.Logger
	botUserID string
	mention   *regexp.Regexp
}

// NewGateway authenticates against Slack and prepares the socket-mode
// client. The auth test resolves the bot's user id, needed both for
// stripping mentions and for loop prevention.
func NewGateway(botToken, appToken string, handler *Handler, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	auth, err := api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("slack auth test: %w", err)
	}
	logger.Info("connected to slack", "bot_user_id", auth.UserID, "team", auth.Team)

	return &Gateway{
		api:       api,
		client:    socketmode.New(api),
		handler:   handler,
		logger:    logger,
		botUserID: auth.UserID,
		mention:   mentionPattern(auth.UserID),
	}, nil
}

// mentionPattern matches the bot's own mention token, e.g. "<@U123ABC>".
func mentionPattern(userID string) *regexp.Regexp {
	return regexp.MustCompile("<@" + regexp.QuoteMeta(userID) + ">")
}

// Run consumes socket-mode events until the context is cancelled. Mentions
// are handled one at a time in event order; every turn produces exactly one
// reply in the mention's thread.
func (g *Gateway) Run(ctx context.Context) error {
	go g.eventLoop(ctx)
	return g.client.RunContext(ctx)
}

func (g *Gateway) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-g.client.Events:
			if !ok {
				return
			}
			g.dispatch(ctx, evt)
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		g.logger.Info("connecting to slack socket mode")
	case socketmode.EventTypeConnectionError:
		g.logger.Warn("slack connection error, retrying")
	case socketmode.EventTypeConnected:
		g.logger.Info("slack socket mode connected")
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			g.client.Ack(*evt.Request)
		}
		g.handleEventsAPI(ctx, apiEvent)
	}
}

func (g *Gateway) handleEventsAPI(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}

	switch ev := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		g.handleMention(ctx, ev)
	}
}

func (g *Gateway) handleMention(ctx context.Context, ev *slackevents.AppMentionEvent) {
	// Never react to the bot itself or other bots.
	if ev.BotID != "" || ev.User == "" || ev.User == g.botUserID {
		return
	}

	text := g.stripMention(ev.Text)
	threadTS := ev.ThreadTimeStamp
	if threadTS == "" {
		threadTS = ev.TimeStamp
	}

	g.logger.Info("received mention", "channel", ev.Channel, "user", ev.User, "text_len", len(text))

	g.post(ctx, ev.Channel, threadTS, respond.ReplyThinking)

	reply := g.handler.HandleTurn(ctx, text)
	g.post(ctx, ev.Channel, threadTS, reply)
}

func (g *Gateway) post(ctx context.Context, channel, threadTS, text string) {
	_, _, err := g.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		g.logger.Error("failed to post message", "channel", channel, "error", err)
	}
}

// stripMention removes the bot's own mention token from message text.
func (g *Gateway) stripMention(text string) string {
	return strings.TrimSpace(g.mention.ReplaceAllString(text, ""))
}
