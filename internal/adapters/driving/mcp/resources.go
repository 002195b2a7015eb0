package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for ConahGPT resources.
	uriScheme = "conahgpt://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents in the cached snapshot with their chunk counts",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Normalised chunk text of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// documentInfo summarises one source file of the snapshot.
type documentInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Link   string `json:"link,omitempty"`
	Chunks int    `json:"chunks"`
}

// summarise groups snapshot chunks by source, in first-seen order.
func summarise(snap *domain.Snapshot) []documentInfo {
	infos := []documentInfo{}
	if snap == nil {
		return infos
	}
	index := make(map[string]int)
	for i := range snap.Chunks {
		c := snap.Chunks[i]
		pos, ok := index[c.SourceID]
		if !ok {
			pos = len(infos)
			index[c.SourceID] = pos
			infos = append(infos, documentInfo{
				ID:   c.SourceID,
				Name: c.SourceName,
				Type: string(c.SourceType),
				Link: baseLink(c.SourceLink),
			})
		}
		infos[pos].Chunks++
	}
	return infos
}

// baseLink drops a passage fragment from a citation link.
func baseLink(link string) string {
	if i := strings.IndexByte(link, '#'); i >= 0 {
		return link[:i]
	}
	return link
}

// handleDocumentsResource lists the documents of the cached snapshot.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var snap *domain.Snapshot
	if s.ports.Chunks != nil {
		var err error
		snap, err = s.ports.Chunks.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
	}

	data, err := json.MarshalIndent(summarise(snap), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns the chunk text of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Chunks == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: conahgpt://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	snap, err := s.ports.Chunks.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	var parts []string
	for i := range snap.Chunks {
		if snap.Chunks[i].SourceID == docID {
			parts = append(parts, snap.Chunks[i].Text)
		}
	}
	if len(parts) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(parts, "\n\n"),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like conahgpt://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
