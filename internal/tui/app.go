// internal/tui/app.go
//
// Live pipeline board for hireflow. It uses bubbletea, which follows The Elm
// Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The engine runs in its own goroutine; every tick it emits an event that
// flows into Update, and View redraws the candidate board.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/hireflow/internal/engine"
	"github.com/kingrea/hireflow/internal/pipeline"
	"github.com/kingrea/hireflow/internal/stage"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	offerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	waitingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// tickMsg wraps an engine tick event for the update loop.
type tickMsg engine.TickEvent

// doneMsg signals the engine goroutine finished.
type doneMsg struct {
	state engine.State
	err   error
}

// Runner abstracts the engine so tests can drive the board without a real
// pipeline run.
type Runner func(ctx context.Context, observer engine.Observer) (engine.State, error)

// App is the board model. It holds everything the view needs.
type App struct {
	runner  Runner
	spinner spinner.Model

	events chan engine.TickEvent
	cancel context.CancelFunc

	runID    string
	tick     int
	stageID  stage.ID
	snapshot pipeline.State
	log      []string

	done     bool
	quitting bool
	final    engine.State
	err      error

	width int
}

// NewApp builds the board around a runner.
func NewApp(runner Runner) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &App{
		runner:  runner,
		spinner: sp,
		events:  make(chan engine.TickEvent, 16),
	}
}

// Run starts the bubbletea program and blocks until the run finishes or the
// user quits. It returns the final engine state.
func Run(ctx context.Context, runner Runner) (engine.State, error) {
	app := NewApp(runner)
	program := tea.NewProgram(app)
	model, err := program.Run()
	if err != nil {
		return engine.State{}, fmt.Errorf("tui: %w", err)
	}
	finished, ok := model.(*App)
	if !ok {
		return engine.State{}, fmt.Errorf("tui: unexpected final model %T", model)
	}
	return finished.final, finished.err
}

// Init kicks off the engine goroutine and the spinner.
func (a *App) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	return tea.Batch(a.spinner.Tick, a.startRun(ctx), a.waitForEvent())
}

func (a *App) startRun(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		state, err := a.runner(ctx, func(ev engine.TickEvent) {
			a.events <- ev
		})
		close(a.events)
		return doneMsg{state: state, err: err}
	}
}

func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		if !ok {
			return nil
		}
		return tickMsg(ev)
	}
}

// Update handles messages: engine ticks, completion, key presses.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// Cancel the run but keep the program alive until the engine
			// reports back, so the final state isn't lost.
			if a.cancel != nil {
				a.cancel()
			}
			if a.done {
				return a, tea.Quit
			}
			a.quitting = true
		}
		return a, nil
	case tickMsg:
		a.applyTick(engine.TickEvent(msg))
		return a, a.waitForEvent()
	case doneMsg:
		a.done = true
		a.final = msg.state
		a.err = msg.err
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.spinner, cmd = a.spinner.Update(msg)
	return a, cmd
}

func (a *App) applyTick(ev engine.TickEvent) {
	a.runID = ev.RunID
	a.tick = ev.Tick
	a.stageID = ev.Stage
	a.snapshot = ev.Snapshot
	line := fmt.Sprintf("tick %d: %s (%s) %s", ev.Tick, ev.Stage, ev.Result.Status, ev.Result.Message)
	a.log = append(a.log, line)
	for _, failure := range ev.Result.Failures {
		a.log = append(a.log, fmt.Sprintf("  ! %s %s: %s", failure.CandidateID, failure.Call, failure.Reason))
	}
	// Keep the tail; old ticks are in the run log on disk.
	if len(a.log) > 12 {
		a.log = a.log[len(a.log)-12:]
	}
}

// View renders the candidate board.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("hireflow"))
	if a.runID != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  run %s", a.runID)))
	}
	b.WriteString("\n\n")

	if !a.done {
		b.WriteString(fmt.Sprintf("%s tick %d | %s\n\n", a.spinner.View(), a.tick, a.stageID))
	}

	b.WriteString(headerStyle.Render("Candidates"))
	b.WriteString("\n")
	if len(a.snapshot.Interviews) == 0 {
		b.WriteString(dimStyle.Render("  (none shortlisted yet)"))
		b.WriteString("\n")
	}
	for i := range a.snapshot.Interviews {
		c := &a.snapshot.Interviews[i]
		slot := ""
		if last, ok := c.LastRound(); ok {
			slot = last.Slot
		}
		line := fmt.Sprintf("  %-8s round %d  %-20s %s", c.CandidateID, c.CurrentRound, c.Status, slot)
		b.WriteString(statusStyle(c.Status).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Activity"))
	b.WriteString("\n")
	for _, line := range a.log {
		b.WriteString(dimStyle.Render("  " + line))
		b.WriteString("\n")
	}

	if a.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("run failed: %v", a.err)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("q to quit"))
	b.WriteString("\n")
	return b.String()
}

func statusStyle(status pipeline.CandidateStatus) lipgloss.Style {
	switch status {
	case pipeline.StatusOfferMade:
		return offerStyle
	case pipeline.StatusRejected:
		return rejectedStyle
	case pipeline.StatusWaitingFeedback:
		return waitingStyle
	default:
		return lipgloss.NewStyle()
	}
}
