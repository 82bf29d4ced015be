package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing analysis service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Results: &mockResultService{}})
		assert.ErrorIs(t, err, ErrMissingAnalysisService)
		assert.Nil(t, server)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Analysis: &mockAnalysisService{}, Results: &mockResultService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingAnalysisService)
	assert.ErrorIs(t, (&Ports{Analysis: &mockAnalysisService{}}).Validate(), ErrMissingResultService)
	assert.NoError(t, (&Ports{Analysis: &mockAnalysisService{}, Results: &mockResultService{}}).Validate())
}
