package results

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

func sample() []domain.Result {
	return []domain.Result{
		{DocumentName: "a.pdf", ModelID: "gpt-4o-mini", Answers: []domain.Answer{{Index: 1, Text: "yes"}, {Index: 2, Text: "-"}}},
		{DocumentName: "b.pdf", ModelID: "gpt-4o-mini", Answers: []domain.Answer{{Index: 1, Text: "-"}}},
	}
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil)

	assert.Contains(t, v.View(), "No results.")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil)
	v.SetResults(sample(), nil)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.SelectedIndex())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.SelectedIndex())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ResultSelected{Index: 1}, cmd())
}

func TestView_Render(t *testing.T) {
	v := NewView(nil)
	v.SetResults(sample(), errors.New("rate limited"))

	out := v.View()

	assert.Contains(t, out, "Analysis stopped: rate limited")
	assert.Contains(t, out, "a.pdf")
	assert.Contains(t, out, "1/2 answered")
	assert.Contains(t, out, "0/1 answered")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "informe_…", truncate("informe_largo.pdf", 9))
}
