package httpapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// IndexText is the plain-text liveness reply.
const IndexText = "ConahGPT is running. Ready to answer."

// cachedSnapshot is implemented by chunk providers that can report their
// current snapshot without triggering a refresh.
type cachedSnapshot interface {
	Cached() *domain.Snapshot
}

// handleIndex replies with IndexText, followed by the cached chunk count once
// the first crawl has completed.
func (s *Server) handleIndex(c fiber.Ctx) error {
	if cs, ok := s.ports.Chunks.(cachedSnapshot); ok {
		if snap := cs.Cached(); snap != nil {
			return c.SendString(IndexText + " Cached chunks: " + strconv.Itoa(snap.Len()))
		}
	}
	return c.SendString(IndexText)
}

// handleHealth reports cache state without touching the document store.
func (s *Server) handleHealth(c fiber.Ctx) error {
	out := fiber.Map{"status": "ok", "app": AppName}

	if cs, ok := s.ports.Chunks.(cachedSnapshot); ok {
		snap := cs.Cached()
		out["chunks"] = snap.Len()
		if snap != nil {
			out["files"] = snap.Files
			out["failures"] = len(snap.Failures)
			out["refreshed_at"] = snap.RefreshedAt.UTC().Format(time.RFC3339)
		}
	}

	return c.JSON(out)
}
