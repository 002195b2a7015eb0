package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/logger"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// DefaultRetryBackoff is the wait before the single optional retry.
const DefaultRetryBackoff = 2 * time.Second

// refusalPrefix marks model output that declines to answer.
const refusalPrefix = "i cannot answer"

// Generator wraps one call to the generation model and cleans its answer.
type Generator struct {
	llm     driven.LLMService
	opts    driven.GenerateOptions
	retries int
	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration) error
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRetry allows up to retries extra attempts after a failure, waiting
// backoff before each. Retries above 1 are clamped to 1.
func WithRetry(retries int, backoff time.Duration) GeneratorOption {
	return func(g *Generator) {
		if retries > 1 {
			retries = 1
		}
		if retries >= 0 {
			g.retries = retries
		}
		if backoff > 0 {
			g.backoff = backoff
		}
	}
}

// WithSleep replaces the backoff wait, letting tests skip real delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) GeneratorOption {
	return func(g *Generator) {
		if fn != nil {
			g.sleep = fn
		}
	}
}

// NewGenerator creates a generator using opts for every call.
func NewGenerator(llm driven.LLMService, opts driven.GenerateOptions, options ...GeneratorOption) *Generator {
	g := &Generator{
		llm:     llm,
		opts:    opts,
		backoff: DefaultRetryBackoff,
		sleep:   sleepContext,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Generate sends prompt with the system instruction and returns the
// normalised answer. Empty output, or output starting with "I cannot answer",
// becomes the exact refusal sentence. Failures wrap domain.ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, prompt, system string) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, domain.ErrLLMUnavailable)
	}

	opts := g.opts
	opts.System = system

	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		if attempt > 0 {
			logger.Warn("[llm] retrying after error: %v", lastErr)
			if err := g.sleep(ctx, g.backoff); err != nil {
				return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
			}
		}

		out, err := g.llm.Generate(ctx, prompt, opts)
		if err == nil {
			return CleanAnswer(out), nil
		}
		lastErr = err
		logger.Error("[llm] %s error: %v", g.llm.ModelName(), err)
		if permanent(err) {
			break
		}
	}

	return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, lastErr)
}

// permanent reports errors a retry cannot fix.
func permanent(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrLLMUnavailable)
}

// CleanAnswer normalises model output and maps refusals to the exact
// refusal sentence.
func CleanAnswer(out string) string {
	answer := text.Normalise(out)
	if answer == "" || strings.HasPrefix(strings.ToLower(answer), refusalPrefix) {
		return domain.RefusalSentence
	}
	return answer
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
