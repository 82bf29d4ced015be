package progress

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func TestNewView(t *testing.T) {
	v := NewView(nil, 0)

	require.NotNil(t, v)
	assert.Equal(t, 1, v.expected)
	assert.NotNil(t, v.Init())
	assert.Zero(t, v.Percent())
	assert.Contains(t, v.View(), "Loading documents")
}

func TestView_ApplyTracksBatches(t *testing.T) {
	v := NewView(nil, 2)

	v.Apply(domain.Progress{Document: "a.pdf", Stage: domain.StageUploaded, Batch: -1})
	assert.Zero(t, v.Percent())

	v.Apply(domain.Progress{Document: "a.pdf", Stage: domain.StageParsing, Batch: 0, TotalBatches: 2})
	assert.InDelta(t, 0.25, v.Percent(), 1e-9)
	assert.Equal(t, "parsing (batch 1/2)", v.Status())

	v.Apply(domain.Progress{Document: "a.pdf", Stage: domain.StageComplete, Batch: -1, TotalBatches: 2})
	assert.InDelta(t, 0.5, v.Percent(), 1e-9)

	v.Apply(domain.Progress{Document: "b.pdf", Stage: domain.StageComplete, Batch: -1})
	assert.InDelta(t, 1.0, v.Percent(), 1e-9)
	assert.Contains(t, v.View(), "b.pdf")
}

func TestView_RetryNoteKeepsStage(t *testing.T) {
	v := NewView(nil, 1)
	v.Apply(domain.Progress{Document: "a.pdf", Stage: domain.StageCompleting, Batch: 1, TotalBatches: 3})

	v.Apply(domain.Progress{
		Document: "a.pdf", Stage: domain.StageCompleting, Batch: 1, TotalBatches: 3,
		Attempt: 2, Delay: 10 * time.Second, Err: domain.ErrRateLimited,
	})

	out := v.View()
	assert.Contains(t, out, "completing (batch 2/3)")
	assert.Contains(t, out, "rate limited, retry 2 in 10s")

	v.Apply(domain.Progress{Document: "a.pdf", Stage: domain.StageParsing, Batch: 1, TotalBatches: 3})
	assert.NotContains(t, v.View(), "rate limited")
}

func TestView_Failure(t *testing.T) {
	v := NewView(nil, 1)

	v.Apply(domain.Progress{Document: "a.pdf", Stage: domain.StageFailed, Batch: 0, TotalBatches: 3, Err: errors.New("auth failed")})

	out := v.View()
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "auth failed")
}

func TestView_Update(t *testing.T) {
	v := NewView(nil, 1)

	v, cmd := v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	assert.Equal(t, 100, v.width)
	assert.Equal(t, 60, v.bar.Width)

	v, _ = v.Update(messages.ProgressReceived{Progress: domain.Progress{Document: "x.txt", Stage: domain.StageChunked, Batch: -1}})
	assert.Len(t, v.docs, 1)
}

func TestView_MoreDocumentsThanExpected(t *testing.T) {
	v := NewView(nil, 1)

	v.Apply(domain.Progress{Document: "a", Stage: domain.StageComplete, Batch: -1})
	v.Apply(domain.Progress{Document: "b", Stage: domain.StageUploaded, Batch: -1})

	assert.InDelta(t, 0.5, v.Percent(), 1e-9)
}
