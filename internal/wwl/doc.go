// Package wwl provides an HTTP client for the World-Wide-Lab leaderboard API.
//
// # Overview
//
// The client fetches the scores of one leaderboard and returns them as
// ordered leaderboard.Row values, so remote rows keep the field order the
// server sent. *Client implements leaderboard.ScoreFetcher and is what a
// remote trial is configured with.
//
// # Client Usage
//
//	client, err := wwl.NewClient("https://wwl.example.org", wwl.Options{
//		RequestsPerSecond: 2,
//	})
//	if err != nil {
//		return err
//	}
//	rows, err := client.FetchScores(ctx, "study-42", leaderboard.LevelIndividual,
//		map[string]any{"limit": 10})
//
// A client built with an empty URL is valid but reports Initialized() ==
// false. Trials check this during validation and fail with a configuration
// error before anything is fetched.
//
// # API Endpoint
//
//	GET {base}/v1/leaderboard/{id}/scores/{level}?{options}
//
// level is "individual" or "groups". Fetch options become query parameters:
// scalars are formatted the way table cells are, slices repeat the
// parameter, and nested objects are JSON encoded. The body may be a bare JSON
// array of score objects or an object with a "scores" array.
//
// # Rate Limiting
//
// Options.RequestsPerSecond installs a golang.org/x/time/rate limiter with a
// burst of one. Each request waits for a token and gives up when its context
// ends first.
//
// # Error Handling
//
// Transport and decode failures are wrapped with %w. Non-success statuses are
// returned as *StatusError.
package wwl
