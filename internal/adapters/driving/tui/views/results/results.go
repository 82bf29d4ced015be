// Package results lists finished analysis results.
package results

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// View is a selectable list of results.
type View struct {
	styles   *styles.Styles
	results  []domain.Result
	selected int
	err      error
	width    int
	height   int
}

// NewView creates an empty results view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80}
}

// SetResults replaces the listed results and resets the selection.
func (v *View) SetResults(results []domain.Result, err error) {
	v.results = results
	v.err = err
	v.selected = 0
}

// Results returns the listed results.
func (v *View) Results() []domain.Result {
	return v.results
}

// SelectedIndex returns the cursor position.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and opens the selected result.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.results)-1 {
			v.selected++
		}
	case "enter":
		if len(v.results) == 0 {
			return v, nil
		}
		idx := v.selected
		return v, func() tea.Msg { return messages.ResultSelected{Index: idx} }
	}
	return v, nil
}

// View renders the list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Results"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 1)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Analysis stopped: " + v.err.Error()))
		b.WriteString("\n\n")
	}
	if len(v.results) == 0 {
		b.WriteString(v.styles.Muted.Render("No results."))
		b.WriteString("\n")
		return b.String()
	}

	for i := range v.results {
		r := &v.results[i]
		line := fmt.Sprintf("%-32s %-24s %d/%d answered",
			truncate(r.DocumentName, 32), truncate(r.ModelID, 24), r.Answered(), len(r.Answers))
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
