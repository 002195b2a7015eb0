package httpapi

import (
	"context"
	"errors"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/custodia-labs/conahgpt/internal/logger"
)

// SocketMode receives Slack events over a Socket Mode websocket, for
// workspaces where the bot cannot expose a public /slack/events URL.
// Mentions go through the same dedup and reply path as the webhook.
type SocketMode struct {
	server *Server
	events <-chan socketmode.Event
	ack    func(socketmode.Request)
	run    func(context.Context) error
}

// NewSocketMode connects with the app-level token (xapp-...). The bot token
// is passed along so the client can make Web API calls as the bot.
func NewSocketMode(s *Server, appToken, botToken string, opts ...slack.Option) (*SocketMode, error) {
	if appToken == "" {
		return nil, errors.New("httpapi: app-level token is required for socket mode")
	}
	opts = append(opts, slack.OptionAppLevelToken(appToken))
	client := socketmode.New(slack.New(botToken, opts...))
	return newSocketMode(s, client.Events, func(req socketmode.Request) { client.Ack(req) }, client.RunContext)
}

func newSocketMode(s *Server, events <-chan socketmode.Event, ack func(socketmode.Request), run func(context.Context) error) (*SocketMode, error) {
	if s.ports.Messenger == nil {
		return nil, ErrMissingMessenger
	}
	return &SocketMode{server: s, events: events, ack: ack, run: run}, nil
}

// Run holds the websocket open and handles events until ctx is cancelled.
func (m *SocketMode) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.consume(ctx)
	}()

	logger.Info("[slack] connecting in socket mode")
	err := m.run(ctx)
	cancel()
	<-done

	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (m *SocketMode) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-m.events:
			if !ok {
				return
			}
			m.handle(evt)
		}
	}
}

// handle acks every envelope before doing any work, so Slack never redelivers
// because an answer was slow.
func (m *SocketMode) handle(evt socketmode.Event) {
	if evt.Request != nil && evt.Request.EnvelopeID != "" {
		m.ack(*evt.Request)
	}

	switch evt.Type {
	case socketmode.EventTypeConnecting:
		logger.Debug("[slack] socket mode connecting")
	case socketmode.EventTypeConnected:
		logger.Info("[slack] socket mode connected")
	case socketmode.EventTypeConnectionError:
		logger.Warn("[slack] socket mode connection error: %v", evt.Data)
	case socketmode.EventTypeEventsAPI:
		ev, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok || ev.Type != slackevents.CallbackEvent {
			return
		}
		mention, ok := ev.InnerEvent.Data.(*slackevents.AppMentionEvent)
		if !ok {
			return
		}
		var eventID string
		if cb, ok := ev.Data.(*slackevents.EventsAPICallbackEvent); ok {
			eventID = cb.EventID
		}
		m.server.handleMention(eventID, mention)
	}
}
