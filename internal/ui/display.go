package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/leaderboard/internal/leaderboard"
)

// Ensure Display implements leaderboard.Display at compile time.
var _ leaderboard.Display = (*Display)(nil)

// Display forwards a trial's display calls to the running program as
// messages, so the model stays the only writer of what is on screen.
type Display struct {
	send func(tea.Msg)
}

// NewDisplay returns a Display that delivers through send, typically
// (*tea.Program).Send.
func NewDisplay(send func(tea.Msg)) *Display {
	return &Display{send: send}
}

// ShowLoading shows message with a spinner.
func (d *Display) ShowLoading(message string) {
	d.send(loadingMsg{text: message})
}

// ShowTable replaces whatever is on screen with v.
func (d *Display) ShowTable(v leaderboard.View) {
	d.send(tableMsg{view: v})
}

// ShowError shows a fatal trial error.
func (d *Display) ShowError(err error) {
	d.send(errorMsg{err: err})
}

// Clear empties the trial area.
func (d *Display) Clear() {
	d.send(clearMsg{})
}

// TrialStartedMsg tells the model which timeline entry is running.
type TrialStartedMsg struct {
	Index   int // zero based
	Total   int
	Name    string
	TrialID string
}

// TimelineDoneMsg ends the program once every trial has finished.
type TimelineDoneMsg struct {
	Err error
}

type loadingMsg struct{ text string }

type tableMsg struct{ view leaderboard.View }

type errorMsg struct{ err error }

type clearMsg struct{}
