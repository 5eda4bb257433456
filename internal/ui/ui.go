package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/tasks"
)

const (
	nameWidth = 16
	// per-source headroom for progress updates; the engine drops updates rather than block
	progressBuffer = 16
)

// row is the display state of one source.
type row struct {
	name    string
	stage   tasks.Stage
	started bool
	message string
	result  *tasks.Result
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	engine       *tasks.Engine
	rows         []row
	index        map[string]int
	running      bool
	progressChan chan tasks.ProgressUpdate
	resultChan   chan *tasks.RunResult
	result       *tasks.RunResult
	spinner      spinner.Model
	help         help.Model
	keys         keyMap
	width        int
}

// NewModel creates a new TUI model for the engine's sources.
func NewModel(ctx context.Context, engine *tasks.Engine) *Model {
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:     ctx,
		cancel:  cancel,
		engine:  engine,
		index:   make(map[string]int),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.warn)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.reset()
	return m
}

// Result returns the outcome of the most recent completed sync, nil while none has finished.
func (m *Model) Result() *tasks.RunResult {
	return m.result
}

func (m *Model) reset() {
	sources := m.engine.Sources()
	m.rows = make([]row, len(sources))
	for i, src := range sources {
		name := src.Descriptor().Name
		m.rows[i] = row{name: name, message: "Waiting..."}
		m.index[name] = i
	}
}

// Init starts the sync and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSync())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.applyUpdate(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgSyncComplete:
			m.result = msg.data.(*tasks.RunResult)
			m.applyResult(m.result)
			m.running = false
			m.progressChan, m.resultChan = nil, nil
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		if m.running {
			return m, nil
		}
		m.reset()
		m.result = nil
		return m, tea.Batch(m.spinner.Tick, m.startSync())
	}
	return m, nil
}

func (m *Model) applyUpdate(u tasks.ProgressUpdate) {
	i, ok := m.index[u.Source]
	if !ok {
		return
	}
	r := &m.rows[i]
	r.stage, r.started, r.message = u.Stage, true, u.Message
	if u.Result != nil {
		r.result = u.Result
	}
}

// applyResult settles every row from the final run, covering progress updates the engine dropped.
func (m *Model) applyResult(run *tasks.RunResult) {
	if run == nil {
		return
	}
	for _, res := range run.Results {
		i, ok := m.index[res.Source]
		if !ok {
			continue
		}
		r := &m.rows[i]
		r.stage, r.started, r.result = tasks.Done, true, &res
		if res.Failed() {
			r.message = fmt.Sprintf("Failed during %s: %v", res.Stage, res.Err)
		} else {
			r.message = fmt.Sprintf("Done: %s", res.Outcome)
		}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.running = true
	m.progressChan = make(chan tasks.ProgressUpdate, progressBuffer*max(len(m.rows), 1))
	m.resultChan = make(chan *tasks.RunResult, 1)

	progress, results := m.progressChan, m.resultChan
	go func() {
		results <- m.engine.Sync(m.ctx, progress)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, results := m.progressChan, m.resultChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return syncCompleteMsg(<-results)
		}
		return progressUpdateMsg(update)
	}
}

// View renders one line per source followed by the run summary.
func (m *Model) View() string {
	var b strings.Builder

	title := "Syncing song lists"
	if !m.running && m.result != nil {
		title = "Sync complete"
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	for _, r := range m.rows {
		b.WriteString(m.renderRow(r))
		b.WriteString("\n")
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(m.renderSummary())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.running {
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m *Model) renderRow(r row) string {
	name := styles.name.Render(r.name)

	switch {
	case r.result != nil && r.result.Failed():
		return fmt.Sprintf("%s %s %s", styles.err.Render("✗"), name, styles.err.Render(r.message))
	case r.result != nil && r.result.Outcome == models.OutcomeWritten:
		return fmt.Sprintf("%s %s %s", styles.ok.Render("✓"), name, fmt.Sprintf("written (%d songs)", r.result.Songs))
	case r.result != nil:
		return fmt.Sprintf("%s %s %s", styles.help.Render("="), name, styles.help.Render("unchanged"))
	case !r.started:
		return fmt.Sprintf("%s %s %s", styles.help.Render("·"), name, styles.help.Render(r.message))
	default:
		return fmt.Sprintf("%s %s %s", m.spinner.View(), name, fmt.Sprintf("[%s] %s", r.stage, r.message))
	}
}

func (m *Model) renderSummary() string {
	written := m.result.Count(models.OutcomeWritten)
	unchanged := m.result.Count(models.OutcomeUnchanged)
	failed := m.result.Count(models.OutcomeFailed)

	summary := fmt.Sprintf("%d written, %d unchanged, %d failed", written, unchanged, failed)
	if failed > 0 {
		return styles.err.Render(summary)
	}
	return styles.ok.Render(summary)
}
