package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/leaderboard/internal/config"
	"github.com/five82/leaderboard/internal/leaderboard"
	"github.com/five82/leaderboard/internal/state"
)

// phase is what the trial area currently shows.
type phase int

const (
	phaseIdle phase = iota
	phaseLoading
	phaseTable
	phaseError
)

// SnapshotFunc returns the running trial's committed rows. ok is false when no
// trial is running.
type SnapshotFunc func() (snap state.Snapshot[leaderboard.Row], ok bool)

// Options configures the UI.
type Options struct {
	ThemeName string
	PrefsPath string // empty disables remembering the theme
	PollTick  time.Duration

	// Continue is called when the continue control is activated.
	Continue func()
	Snapshot SnapshotFunc
	Logger   *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	onContinue func()
	snapshotFn SnapshotFunc
	prefsPath  string
	pollTick   time.Duration
	logger     *slog.Logger

	// UI state
	theme   Theme
	styles  Styles
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int

	// Trial state
	phase       phase
	loading     string
	view        leaderboard.View
	trialErr    error
	trial       TrialStartedMsg
	snapshot    state.Snapshot[leaderboard.Row]
	hasSnap     bool
	done        bool
	timelineErr error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	theme := GetTheme(opts.ThemeName)
	styles := theme.Styles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		onContinue: opts.Continue,
		snapshotFn: opts.Snapshot,
		prefsPath:  opts.PrefsPath,
		pollTick:   pollTick,
		logger:     logger,
		theme:      theme,
		styles:     styles,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.snapshotFn != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.snapshotFn))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = msg.snap
		m.hasSnap = msg.ok
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TrialStartedMsg:
		m.trial = msg
		m.hasSnap = false
		m.snapshot = state.Snapshot[leaderboard.Row]{}
		return m, nil

	case loadingMsg:
		m.phase = phaseLoading
		m.loading = msg.text
		return m, m.spinner.Tick

	case tableMsg:
		m.phase = phaseTable
		m.view = msg.view
		m.trialErr = nil
		return m, nil

	case errorMsg:
		m.phase = phaseError
		m.trialErr = msg.err
		return m, nil

	case clearMsg:
		m.phase = phaseIdle
		m.view = leaderboard.View{}
		m.loading = ""
		return m, nil

	case TimelineDoneMsg:
		m.done = true
		m.timelineErr = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return m.renderMain()
}

// TimelineErr returns the error the timeline ended with, if any.
func (m Model) TimelineErr() error {
	return m.timelineErr
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Continue):
		if m.continueVisible() && m.onContinue != nil {
			m.onContinue()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.setTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := config.SavePrefs(m.prefsPath, config.Prefs{Theme: m.theme.Name}); err != nil {
				m.logger.Warn("save theme preference failed", "error", err)
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) setTheme(name string) {
	m.theme = GetTheme(name)
	m.styles = m.theme.Styles()
	m.spinner.Style = m.styles.Spinner
}

func (m Model) continueVisible() bool {
	return m.phase == phaseTable && m.view.ShowContinue
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.snapshotFn != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.snapshotFn))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snap state.Snapshot[leaderboard.Row]
	ok   bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(fn SnapshotFunc) tea.Cmd {
	return func() tea.Msg {
		snap, ok := fn()
		return snapshotMsg{snap: snap, ok: ok}
	}
}
