package mcp

import (
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Analysis runs the question battery over a report.
	Analysis driving.AnalysisService

	// Results reads stored results.
	Results driving.ResultService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Results == nil {
		return ErrMissingResultService
	}
	return nil
}
