package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

// DefaultContextBudget is the default character budget for retrieved context.
const DefaultContextBudget = 8000

// PromptBuilder assembles the model prompt from ranked chunks.
type PromptBuilder struct {
	prompts driven.PromptStore
	budget  int
}

// NewPromptBuilder creates a builder. prompts may be nil, in which case the
// built-in templates are used.
func NewPromptBuilder(prompts driven.PromptStore, budget int) *PromptBuilder {
	if budget <= 0 {
		budget = DefaultContextBudget
	}
	return &PromptBuilder{prompts: prompts, budget: budget}
}

// Context renders chunks as "Source: <name>\nContent: <text>\n" pieces,
// newline separated, until the next piece would push the context past the
// budget. It returns the context and the chunks that made it in.
func (b *PromptBuilder) Context(chunks []domain.RankedChunk) (string, []domain.RankedChunk) {
	const sep = "\n"
	var parts []string
	total := 0
	used := chunks[:0:0]
	for _, rc := range chunks {
		piece := "Source: " + rc.Chunk.SourceName + "\nContent: " + rc.Chunk.Text + "\n"
		if len(parts) > 0 {
			total += len(sep)
		}
		if total+len(piece) > b.budget {
			break
		}
		parts = append(parts, piece)
		total += len(piece)
		used = append(used, rc)
	}
	return strings.Join(parts, sep), used
}

// Build returns the full prompt for question and the chunks it contains.
// When no chunk fits, the prompt is empty.
func (b *PromptBuilder) Build(question string, chunks []domain.RankedChunk) (string, []domain.RankedChunk) {
	ctxText, used := b.Context(chunks)
	if len(used) == 0 {
		return "", nil
	}
	return fmt.Sprintf(b.template(driven.PromptAnswer, domain.DefaultAnswerPrompt), ctxText, question), used
}

// System returns the system instruction with the refusal sentence filled in.
func (b *PromptBuilder) System() string {
	return fmt.Sprintf(b.template(driven.PromptSystem, domain.DefaultSystemPrompt), domain.RefusalSentence)
}

func (b *PromptBuilder) template(name, fallback string) string {
	if b.prompts == nil {
		return fallback
	}
	tmpl, err := b.prompts.Load(name)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		if err != nil {
			logger.Warn("[llm] prompt %q unavailable, using default: %v", name, err)
		}
		return fallback
	}
	return tmpl
}
