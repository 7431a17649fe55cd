// Package trialfile reads leaderboard trial definitions from YAML.
//
// A file holds either one trial:
//
//	leaderboard_id: study-42
//	score_level: individual
//	refresh_interval: 5   # seconds
//	duration: 30000       # milliseconds
//
// or a timeline of trials run in order:
//
//	trials:
//	  - name: practice
//	    data:
//	      - {rank: 1, name: John, score: 1000}
//	    columns:
//	      - rank
//	      - {key: name, label: Player}
//	  - wwl_leaderboard_id: study-42
//
// Rows are decoded through yaml.Node so each row keeps the key order written
// in the file; derived columns depend on it. The wwl_ prefixed names are
// accepted as aliases of leaderboard_id, score_level, and fetch_options.
//
// Structural problems (a columns mapping instead of a list, unknown keys,
// non-numeric durations) are returned as *leaderboard.ConfigurationError with
// the offending line. Semantic checks, such as data and leaderboard_id both
// being set, are left to leaderboard.Params.Validate so a file and a Go
// caller see the same messages.
package trialfile
