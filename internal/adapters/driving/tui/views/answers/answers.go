// Package answers shows the question battery answers of one result.
package answers

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// View is a scrollable list of question/answer pairs.
type View struct {
	styles       *styles.Styles
	result       *domain.Result
	scrollOffset int
	width        int
	height       int
}

// NewView creates an answers view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetResult sets the result to display.
func (v *View) SetResult(r *domain.Result) {
	v.result = r
	v.scrollOffset = 0
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

// Update scrolls, or returns to the result list on esc.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewResults}
		}
	}
	return v, nil
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines())-v.visibleLines(), 0)
}

func (v *View) lines() []string {
	if v.result == nil {
		return nil
	}
	var lines []string
	for _, a := range v.result.Answers {
		lines = append(lines, v.styles.Question.Render(fmt.Sprintf("%d. %s", a.Index, a.Question)))
		if a.Text == domain.NoAnswer {
			lines = append(lines, "   "+v.styles.NoAnswer.Render(a.Text))
		} else {
			lines = append(lines, "   "+v.styles.Normal.Render(a.Text))
		}
	}
	return lines
}

// View renders the answers.
func (v *View) View() string {
	var b strings.Builder

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("No result selected"))
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(v.result.DocumentName))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %s  %d/%d answered",
		v.result.ModelID, v.result.Answered(), len(v.result.Answers))))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 1)))
	b.WriteString("\n\n")

	lines := v.lines()
	end := min(v.scrollOffset+v.visibleLines(), len(lines))
	for _, line := range lines[v.scrollOffset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
