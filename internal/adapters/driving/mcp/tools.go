package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

// defaultListLimit applies when list_results gets no limit.
const defaultListLimit = 10

// AnalyzeInput is the input schema for the analyze_document tool.
type AnalyzeInput struct {
	Path string `json:"path" jsonschema:"absolute path of a PDF or text incident report"`
}

// AnalyzeOutput is the output schema for the analyze_document tool.
type AnalyzeOutput struct {
	Result ResultOutput `json:"result"`
}

// ListResultsInput is the input schema for the list_results tool.
type ListResultsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// ListResultsOutput is the output schema for the list_results tool.
type ListResultsOutput struct {
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// ResultOutput is one analysed document.
type ResultOutput struct {
	ID       string         `json:"id"`
	Document string         `json:"document"`
	Model    string         `json:"model"`
	Answered int            `json:"answered"`
	Total    int            `json:"total"`
	Answers  []AnswerOutput `json:"answers,omitempty"`
}

// AnswerOutput is one question and its answer; "-" means unanswered.
type AnswerOutput struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Answer the incident question battery about one report and store the result",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_results",
		Description: "List the most recent analysis results",
	}, s.handleListResults)
}

func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	if input.Path == "" {
		return nil, AnalyzeOutput{}, errors.New("path is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.ports.Analysis.AnalyzeFiles(ctx, []string{input.Path}, driving.AnalyzeOptions{})
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}
	if len(results) == 0 {
		return nil, AnalyzeOutput{}, errors.New("analysis produced no result")
	}
	return nil, AnalyzeOutput{Result: toResultOutput(&results[0], true)}, nil
}

func (s *Server) handleListResults(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListResultsInput,
) (*mcp.CallToolResult, ListResultsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	results, err := s.ports.Results.List(ctx, limit)
	if err != nil {
		return nil, ListResultsOutput{}, err
	}

	out := ListResultsOutput{
		Results: make([]ResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		out.Results[i] = toResultOutput(&results[i], false)
	}
	return nil, out, nil
}

func toResultOutput(r *domain.Result, withAnswers bool) ResultOutput {
	out := ResultOutput{
		ID:       r.ID,
		Document: r.DocumentName,
		Model:    r.ModelID,
		Answered: r.Answered(),
		Total:    len(r.Answers),
	}
	if withAnswers {
		out.Answers = make([]AnswerOutput, len(r.Answers))
		for i, a := range r.Answers {
			out.Answers[i] = AnswerOutput{Index: a.Index, Question: a.Question, Answer: a.Text}
		}
	}
	return out
}
