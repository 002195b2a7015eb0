package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// retryHeader is set by Slack on redelivered events.
const retryHeader = "X-Slack-Retry-Num"

var mentionPattern = regexp.MustCompile(`<@[^>]+>`)

// StripMentions removes user mention markup and surrounding whitespace.
func StripMentions(text string) string {
	return strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
}

// handleSlackEvents acknowledges every event quickly. Mentions are answered
// by a dispatched task that posts the reply through the messenger.
func (s *Server) handleSlackEvents(c fiber.Ctx) error {
	body := c.Body()

	if s.cfg.SigningSecret != "" {
		if err := s.verify(c, body); err != nil {
			logger.Warn("[slack] rejected request: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
		}
	}

	ev, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		// Slack retries anything but a 2xx, so unparseable payloads are dropped.
		logger.Warn("[slack] ignoring unparseable event: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	if ev.Type == slackevents.URLVerification {
		if v, ok := ev.Data.(*slackevents.EventsAPIURLVerificationEvent); ok {
			return c.JSON(fiber.Map{"challenge": v.Challenge})
		}
		return c.SendStatus(fiber.StatusOK)
	}

	if c.Get(retryHeader) != "" {
		logger.Debug("[slack] dropping retry %s", c.Get(retryHeader))
		return c.SendStatus(fiber.StatusOK)
	}

	if ev.Type != slackevents.CallbackEvent {
		return c.SendStatus(fiber.StatusOK)
	}

	mention, ok := ev.InnerEvent.Data.(*slackevents.AppMentionEvent)
	if !ok {
		return c.SendStatus(fiber.StatusOK)
	}

	var eventID string
	if cb, ok := ev.Data.(*slackevents.EventsAPICallbackEvent); ok {
		eventID = cb.EventID
	}
	s.handleMention(eventID, mention)

	return c.SendStatus(fiber.StatusOK)
}

// handleMention dedupes a mention and queues its reply. It is shared by the
// webhook and the Socket Mode listener.
func (s *Server) handleMention(eventID string, mention *slackevents.AppMentionEvent) {
	if s.seen.Seen(eventKey(eventID, mention.Channel, mention.TimeStamp, mention.Text)) {
		logger.Debug("[slack] duplicate event %s", eventID)
		return
	}

	question := StripMentions(mention.Text)
	if question == "" || mention.Channel == "" {
		return
	}

	threadTS := ""
	if s.cfg.ReplyInThread {
		threadTS = mention.ThreadTimeStamp
		if threadTS == "" {
			threadTS = mention.TimeStamp
		}
	}

	id, err := s.ports.Dispatcher.Submit("slack-mention", s.replyTask(mention.Channel, question, threadTS))
	if err != nil {
		logger.Warn("[slack] could not queue mention in %s: %v", mention.Channel, err)
		return
	}
	logger.Debug("[slack] queued mention %s in %s", id, mention.Channel)
}

// replyTask answers question and posts the reply at most once.
func (s *Server) replyTask(channel, question, threadTS string) driving.Task {
	return func(ctx context.Context) {
		ans, err := s.ports.Answer.Answer(ctx, question)
		if err != nil {
			logger.Warn("[slack] answering in %s: %v", channel, err)
			return
		}
		if err := s.ports.Messenger.PostMessage(ctx, channel, ans.Reply(), threadTS); err != nil {
			logger.Error("[slack] post error: %v", err)
		}
	}
}

// verify checks the Slack request signature against the signing secret.
func (s *Server) verify(c fiber.Ctx, body []byte) error {
	header := make(http.Header)
	for k, vs := range c.GetReqHeaders() {
		for _, v := range vs {
			header.Add(k, v)
		}
	}

	sv, err := slack.NewSecretsVerifier(header, s.cfg.SigningSecret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	if err := sv.Ensure(); err != nil {
		return errors.Join(domain.ErrUnauthorized, err)
	}
	return nil
}
