// Package app wires configuration, the remote client, the results store and
// the terminal UI together and runs a timeline of leaderboard trials.
//
// # Overview
//
// This package is the composition root. Domain behavior lives in the
// leaderboard package; app only connects the pieces with defaults suited to a
// single operator running trials from a YAML file.
//
// # Architecture
//
//  1. Setup loads ~/.config/leaderboard/config.toml, applies the remembered
//     prefs and opens the slog text log file
//  2. It builds the World-Wide-Lab client. Without wwl_url the client is left
//     uninitialized and remote trials fail validation
//  3. It opens the SQLite results store unless disabled
//  4. Run starts the Bubble Tea program and the timeline in one errgroup
//  5. The timeline runs each trial's controller in order, drawing through
//     ui.Display and saving each output
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Setup()            config, log file, wwl client, results
//	       ├─────> trialfile.Load()   trials
//	       └─────> errgroup
//	                ├─> program.Run()           UI (blocks until quit)
//	                └─> Timeline.Run()
//	                     ├─> Controller.Run()   one trial at a time
//	                     ├─> results.Save()     on completion
//	                     └─> TimelineDoneMsg    ends the program
//
// # Error Handling
//
// Returned from Run:
//   - Config or trial file unreadable or invalid
//   - Results database cannot be opened
//   - Every trial that ended with a configuration or fetch error, joined
//
// Recoverable (logged):
//   - A failed trial; its error output is saved and the next trial runs
//   - Refresh failures while a table is displayed
//   - Saving a trial result or the theme preference
//
// Quitting the UI cancels the running trial. Its output is still saved with
// the cancelled trigger and Run returns nil.
//
// # Rendering Without Running
//
// Render validates and resolves trials once and prints the resulting tables
// as text or as the HTML fragment a browser host would show.
package app
