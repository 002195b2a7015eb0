package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driven"
	"github.com/custodia-labs/conahgpt/internal/core/ports/driving"
	"github.com/custodia-labs/conahgpt/internal/logger"
	"github.com/custodia-labs/conahgpt/internal/normalisers/text"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerConfig holds the reply policies of the answer pipeline.
type AnswerConfig struct {
	TopK                int
	FailurePolicy       domain.FailurePolicy
	ReportDegradedReads bool
}

// AnswerConfigFor extracts the answer config from settings.
func AnswerConfigFor(s domain.Settings) AnswerConfig {
	return AnswerConfig{
		TopK:                s.Retrieval.TopK,
		FailurePolicy:       s.Reply.FailurePolicy,
		ReportDegradedReads: s.Reply.ReportDegradedReads,
	}
}

// AnswerService runs retrieve, prompt, generate and cite for a question.
type AnswerService struct {
	chunks    driving.ChunkProvider
	ranker    driven.Ranker
	builder   *PromptBuilder
	generator *Generator
	citations *CitationFormatter
	cfg       AnswerConfig
}

// NewAnswerService creates the answer pipeline.
func NewAnswerService(
	chunks driving.ChunkProvider,
	ranker driven.Ranker,
	builder *PromptBuilder,
	generator *Generator,
	citations *CitationFormatter,
	cfg AnswerConfig,
) *AnswerService {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if !cfg.FailurePolicy.IsValid() {
		cfg.FailurePolicy = domain.FailureMarker
	}
	if citations == nil {
		citations = NewCitationFormatter(DefaultPreviewWords)
	}
	return &AnswerService{
		chunks:    chunks,
		ranker:    ranker,
		builder:   builder,
		generator: generator,
		citations: citations,
		cfg:       cfg,
	}
}

// Answer implements driving.AnswerService.
func (s *AnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = text.Normalise(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	snap, err := s.chunks.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	ans := &domain.Answer{
		Question: question,
		Degraded: s.cfg.ReportDegradedReads && snap.Degraded(),
	}

	if snap.Len() == 0 {
		ans.Text = domain.NoDocumentsReply
		ans.Outcome = domain.OutcomeNoDocuments
		return s.done(ans), nil
	}

	ranked := s.ranker.Rank(question, snap.Chunks, s.cfg.TopK)
	prompt, used := s.builder.Build(question, ranked)
	if len(used) == 0 {
		ans.Text = domain.RefusalSentence
		ans.Outcome = domain.OutcomeRefused
		return s.done(ans), nil
	}

	reply, err := s.generator.Generate(ctx, prompt, s.builder.System())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		ans.Outcome = domain.OutcomeGenerationFailed
		ans.Text = domain.GenerationErrorReply
		if s.cfg.FailurePolicy == domain.FailureRefusal {
			ans.Text = domain.RefusalSentence
		}
		return s.done(ans), nil
	}

	ans.Text = reply
	if reply == domain.RefusalSentence {
		ans.Outcome = domain.OutcomeRefused
		return s.done(ans), nil
	}

	ans.Outcome = domain.OutcomeAnswered
	ans.Sources = used
	ans.Citations = s.citations.Format(reply, used)
	return s.done(ans), nil
}

// Search implements driving.AnswerService.
func (s *AnswerService) Search(ctx context.Context, query string, topK int) ([]domain.RankedChunk, error) {
	query = text.Normalise(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.cfg.TopK
	}

	snap, err := s.chunks.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.ranker.Rank(query, snap.Chunks, topK), nil
}

func (s *AnswerService) done(ans *domain.Answer) *domain.Answer {
	logger.Info("[answer] %q -> %s (%d citations)", ans.Question, ans.Outcome, len(ans.Citations))
	return ans
}
