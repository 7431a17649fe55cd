// Package ui hosts leaderboard trials in the terminal.
//
// # Architecture Overview
//
// The package implements a Bubble Tea program. Trials never touch the
// program directly: the controller draws through a Display, which turns each
// call into a message delivered with (*tea.Program).Send. The Model is the
// only writer of what is on screen.
//
// # Package Structure
//
//   - app.go: Model, Update loop, snapshot polling
//   - display.go: the leaderboard.Display adapter and its messages
//   - header.go: status bar with trial position and refresh status
//   - table.go: lipgloss table rendering of a leaderboard.Table
//   - view.go: screen layout
//   - keys.go: key bindings and help
//   - theme.go: color themes and derived styles
//
// # Event Flow
//
//  1. The caller builds a Model with New and starts a tea.Program
//  2. For each trial it sends TrialStartedMsg and runs a controller whose
//     Display came from NewDisplay(program.Send)
//  3. A tick polls Options.Snapshot so the header can show when the table
//     was last refreshed and whether refreshes are failing
//  4. Pressing enter while the continue control is visible calls
//     Options.Continue
//  5. TimelineDoneMsg quits the program
//
// # Key Bindings
//
//   - enter or space: Continue
//   - T: Cycle theme (remembered in the prefs file)
//   - ?: Toggle help
//   - esc or Ctrl+C: Quit
package ui
