package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

const uriScheme = "incident://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "questions",
		Name:        "questions",
		Description: "The question battery asked about every report",
		MIMEType:    "application/json",
	}, s.handleQuestionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "results/{id}",
		Name:        "result",
		Description: "Answers of one analysed report",
		MIMEType:    "application/json",
	}, s.handleResultResource)
}

func (s *Server) handleQuestionsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	set := s.ports.Analysis.Questions()

	type questionInfo struct {
		Index int    `json:"index"`
		Text  string `json:"text"`
	}
	infos := make([]questionInfo, len(set.Questions))
	for i, q := range set.Questions {
		infos[i] = questionInfo{Index: q.Index, Text: q.Text}
	}

	return jsonResource(req.Params.URI, map[string]any{
		"name":      set.Name,
		"questions": infos,
	})
}

func (s *Server) handleResultResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractResultID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Results.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting result: %w", err)
	}

	return jsonResource(req.Params.URI, toResultOutput(result, true))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractResultID extracts the id from a URI like incident://results/{id}.
func extractResultID(uri string) string {
	const prefix = uriScheme + "results/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
