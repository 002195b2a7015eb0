// Package slack posts replies to Slack through the Web API.
package slack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// Verify interface compliance.
var _ driven.Messenger = (*Messenger)(nil)

// chat.postMessage allows roughly one message per second per channel.
const (
	DefaultRate  = rate.Limit(1)
	DefaultBurst = 4
)

// Messenger sends channel messages as the bot user.
type Messenger struct {
	api     *slack.Client
	limiter *rate.Limiter
}

// NewMessenger creates a messenger for the given bot token.
// Extra options are passed to the Slack client (API URL, HTTP client).
func NewMessenger(token string, opts ...slack.Option) *Messenger {
	return &Messenger{
		api:     slack.New(token, opts...),
		limiter: rate.NewLimiter(DefaultRate, DefaultBurst),
	}
}

// PostMessage renders text as mrkdwn and posts it to channel.
// A non-empty threadTS posts the message as a thread reply.
func (m *Messenger) PostMessage(ctx context.Context, channel, text, threadTS string) error {
	if channel == "" {
		return fmt.Errorf("%w: channel is required", domain.ErrInvalidInput)
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return err
	}

	opts := []slack.MsgOption{slack.MsgOptionText(ToMrkdwn(text), false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}

	_, ts, err := m.api.PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return wrapError(err)
	}
	logger.Debug("[slack] posted %s in %s", ts, channel)
	return nil
}

// Ping checks the token with auth.test.
func (m *Messenger) Ping(ctx context.Context) error {
	if _, err := m.api.AuthTestContext(ctx); err != nil {
		return wrapError(err)
	}
	return nil
}

func wrapError(err error) error {
	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		return fmt.Errorf("slack: %w (retry after %s)", domain.ErrRateLimited, rl.RetryAfter.Round(time.Second))
	}

	var se slack.SlackErrorResponse
	if errors.As(err, &se) {
		switch se.Err {
		case "invalid_auth", "not_authed", "token_revoked", "account_inactive":
			return fmt.Errorf("slack: %w: %s", domain.ErrUnauthorized, se.Err)
		case "channel_not_found":
			return fmt.Errorf("slack: %w: %s", domain.ErrNotFound, se.Err)
		}
	}
	return fmt.Errorf("slack: %w", err)
}
