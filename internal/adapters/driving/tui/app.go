package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/views/answers"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/views/progress"
	"github.com/custodia-labs/incident-rag/internal/adapters/driving/tui/views/results"
	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
)

// eventBuffer bounds progress events queued between the analysis and the UI.
const eventBuffer = 64

// App runs one analysis and then lets the user browse its answers.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	paths []string
	opts  driving.AnalyzeOptions

	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model
	status *status.Bar

	progressView *progress.View
	resultsView  *results.View
	answersView  *answers.View

	currentView messages.ViewType
	showHelp    bool

	results  []domain.Result
	err      error
	finished bool

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates an app that analyses paths once started.
func NewApp(ports *Ports, paths []string, opts driving.AnalyzeOptions) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if len(paths) == 0 {
		return nil, ErrNoDocuments
	}

	expected := len(paths)
	if opts.Combine {
		expected = 1
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:        ports,
		paths:        paths,
		opts:         opts,
		ctx:          context.Background(),
		events:       make(chan tea.Msg, eventBuffer),
		styles:       s,
		keymap:       km,
		help:         help.New(),
		status:       status.NewBar(s, km),
		progressView: progress.NewView(s, expected),
		resultsView:  results.NewView(s),
		answersView:  answers.NewView(s),
		currentView:  messages.ViewProgress,
	}, nil
}

// WithContext sets the parent context of the analysis.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init starts the analysis in the background.
func (a *App) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel

	opts := a.opts
	observer := opts.Progress
	opts.Progress = func(p domain.Progress) {
		if observer != nil {
			observer(p)
		}
		select {
		case a.events <- messages.ProgressReceived{Progress: p}:
		case <-ctx.Done():
		}
	}

	go func() {
		res, err := a.ports.Analysis.AnalyzeFiles(ctx, a.paths, opts)
		select {
		case a.events <- messages.AnalysisFinished{Results: res, Err: err}:
		case <-ctx.Done():
		}
	}()

	return tea.Batch(
		tea.SetWindowTitle("incident-rag"),
		a.progressView.Init(),
		a.waitForEvent(),
	)
}

func (a *App) waitForEvent() tea.Cmd {
	events := a.events
	return func() tea.Msg {
		return <-events
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.finished {
			return a, nil
		}
		a.progressView, cmd = a.progressView.Update(msg)
		return a, cmd

	case messages.ProgressReceived:
		a.progressView.Apply(msg.Progress)
		a.status.SetMessage(a.progressView.Status())
		return a, a.waitForEvent()

	case messages.AnalysisFinished:
		a.finish(msg.Results, msg.Err)
		return a, nil

	case messages.ResultSelected:
		if msg.Index >= 0 && msg.Index < len(a.results) {
			a.answersView.SetResult(&a.results[msg.Index])
			a.currentView = messages.ViewAnswers
			a.status.SetState(status.StateAnswers)
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewResults {
			a.status.SetState(a.resultState())
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case keymap.Matches(msg.String(), a.keymap.Quit):
		return a, a.quit()
	case keymap.Matches(msg.String(), a.keymap.Help):
		a.showHelp = !a.showHelp
		return a, nil
	}

	switch a.currentView {
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case messages.ViewAnswers:
		a.answersView, cmd = a.answersView.Update(msg)
	}
	return a, cmd
}

func (a *App) finish(res []domain.Result, err error) {
	a.finished = true
	a.results = res
	a.err = err
	a.resultsView.SetResults(res, err)
	a.status.SetResultCount(len(res))
	a.status.SetState(a.resultState())
	if err != nil {
		a.status.SetMessage(err.Error())
	}
	a.currentView = messages.ViewResults
}

func (a *App) resultState() status.State {
	if a.err != nil {
		return status.StateError
	}
	return status.StateDone
}

func (a *App) quit() tea.Cmd {
	if a.cancel != nil {
		a.cancel()
	}
	return tea.Quit
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	switch a.currentView {
	case messages.ViewProgress:
		b.WriteString(a.progressView.View())
	case messages.ViewResults:
		b.WriteString(a.resultsView.View())
	case messages.ViewAnswers:
		b.WriteString(a.answersView.View())
	}

	if a.showHelp {
		b.WriteString("\n")
		b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	}
	b.WriteString("\n")
	b.WriteString(a.status.View())
	return b.String()
}

// SetDimensions resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.help.Width = width
	a.status.SetWidth(width)
	a.progressView.SetDimensions(width, height-2)
	a.resultsView.SetDimensions(width, height-2)
	a.answersView.SetDimensions(width, height-2)
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Results returns the results of a finished analysis.
func (a *App) Results() []domain.Result {
	return a.results
}

// Err returns the analysis error, if any.
func (a *App) Err() error {
	return a.err
}

// Finished reports whether the analysis has returned.
func (a *App) Finished() bool {
	return a.finished
}

// Run shows the analysis of paths until the user quits and returns what it
// produced. Quitting early cancels the analysis.
func Run(ctx context.Context, ports *Ports, paths []string, opts driving.AnalyzeOptions) ([]domain.Result, error) {
	app, err := NewApp(ports, paths, opts)
	if err != nil {
		return nil, err
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return app.Results(), fmt.Errorf("TUI error: %w", err)
	}
	if !app.Finished() {
		return app.Results(), ErrInterrupted
	}
	return app.Results(), app.Err()
}
