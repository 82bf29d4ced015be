// Package progress shows a running analysis, one line per document.
package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
)

// document is the last known position of one analysed document.
type document struct {
	name  string
	stage domain.Stage
	batch int
	total int
	note  string
	err   error
}

// fraction estimates how much of the document is done.
func (d *document) fraction() float64 {
	switch {
	case d.stage == domain.StageComplete:
		return 1
	case d.total <= 0 || d.batch < 0:
		return 0
	case d.stage == domain.StageParsing:
		return float64(d.batch+1) / float64(d.total)
	default:
		return float64(d.batch) / float64(d.total)
	}
}

// View renders per-document stages and an overall progress bar.
type View struct {
	styles  *styles.Styles
	spinner spinner.Model
	bar     progress.Model

	docs     []*document
	byName   map[string]*document
	expected int

	width  int
	height int
}

// NewView creates a progress view expecting the given number of documents.
func NewView(s *styles.Styles, expected int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:   s,
		spinner:  sp,
		bar:      progress.New(progress.WithDefaultGradient()),
		byName:   make(map[string]*document),
		expected: max(expected, 1),
		width:    80,
	}
}

// Init starts the spinner.
func (v *View) Init() tea.Cmd {
	return v.spinner.Tick
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.bar.Width = max(min(width-4, 60), 10)
}

// Update handles spinner ticks and progress events.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case messages.ProgressReceived:
		v.Apply(msg.Progress)
	}
	return v, nil
}

// Apply records one progress event.
func (v *View) Apply(p domain.Progress) {
	d, ok := v.byName[p.Document]
	if !ok {
		d = &document{name: p.Document, batch: -1}
		v.byName[p.Document] = d
		v.docs = append(v.docs, d)
		if len(v.docs) > v.expected {
			v.expected = len(v.docs)
		}
	}

	d.batch = p.Batch
	d.total = p.TotalBatches
	switch {
	case p.Stage == domain.StageFailed:
		d.stage = p.Stage
		d.err = p.Err
		d.note = ""
	case p.Attempt > 0:
		d.note = fmt.Sprintf("rate limited, retry %d in %s", p.Attempt, p.Delay)
	default:
		d.stage = p.Stage
		d.note = ""
	}
}

// Percent returns overall completion in [0, 1].
func (v *View) Percent() float64 {
	var sum float64
	for _, d := range v.docs {
		sum += d.fraction()
	}
	return min(sum/float64(v.expected), 1)
}

// Status summarises the most recent document for the status bar.
func (v *View) Status() string {
	if len(v.docs) == 0 {
		return ""
	}
	return v.describe(v.docs[len(v.docs)-1])
}

// View renders the progress view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Incident analysis"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 1)))
	b.WriteString("\n\n")

	if len(v.docs) == 0 {
		b.WriteString(v.spinner.View())
		b.WriteString(" Loading documents...\n")
	}

	for _, d := range v.docs {
		b.WriteString(v.renderDocument(d))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.ViewAs(v.Percent()))
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderDocument(d *document) string {
	var icon string
	switch d.stage {
	case domain.StageComplete:
		icon = v.styles.Success.Render("✓")
	case domain.StageFailed:
		icon = v.styles.Error.Render("✗")
	default:
		icon = v.spinner.View()
	}

	line := fmt.Sprintf("%s %s  %s", icon, d.name, v.styles.Stage(d.stage).Render(v.describe(d)))
	if d.note != "" {
		line += "  " + v.styles.Warning.Render(d.note)
	}
	if d.err != nil {
		line += "\n    " + v.styles.Error.Render(d.err.Error())
	}
	return line
}

func (v *View) describe(d *document) string {
	if d.batch >= 0 && d.total > 0 && !d.stage.IsTerminal() {
		return fmt.Sprintf("%s (batch %d/%d)", d.stage, d.batch+1, d.total)
	}
	return d.stage.String()
}
