package httpapi

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
	"github.com/custodia-labs/conahgpt/internal/logger"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
	Outcome   string   `json:"outcome"`
}

// handleAsk runs the pipeline synchronously for a JSON question.
func (s *Server) handleAsk(c fiber.Ctx) error {
	var req askRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question is required"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), s.cfg.RequestTimeout)
	defer cancel()

	ans, err := s.ports.Answer.Answer(ctx, req.Question)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question is required"})
	case err != nil:
		logger.Error("[answer] /ask failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	citations := ans.Citations
	if citations == nil {
		citations = []string{}
	}
	return c.JSON(askResponse{
		Answer:    ans.Reply(),
		Citations: citations,
		Outcome:   string(ans.Outcome),
	})
}
