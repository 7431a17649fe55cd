package wwl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/leaderboard/internal/leaderboard"
)

// ErrNotInitialized is returned by fetches on a client without a base URL.
var ErrNotInitialized = errors.New("world-wide-lab client has no base url")

// Ensure Client implements ScoreFetcher at compile time.
var _ leaderboard.ScoreFetcher = (*Client)(nil)

// Client talks to the World-Wide-Lab leaderboard API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

const (
	defaultUserAgent = "leaderboard/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 4 << 20
)

// Options tune a Client. The zero value is usable.
type Options struct {
	// RequestsPerSecond caps the request rate. Zero or less means unlimited.
	RequestsPerSecond float64
	UserAgent         string
	Timeout           time.Duration
	Logger            *slog.Logger
}

// NewClient builds a Client for baseURL. An empty baseURL yields a client that
// reports Initialized() == false, so trials that need it fail validation
// instead of issuing requests.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: userAgent,
		logger:    logger.With("component", "wwl"),
	}, nil
}

// Initialized reports whether the client has somewhere to send requests.
func (c *Client) Initialized() bool {
	return c != nil && c.baseURL != nil
}

// BaseURL returns the configured base URL, or "" when uninitialized.
func (c *Client) BaseURL() string {
	if !c.Initialized() {
		return ""
	}
	return c.baseURL.String()
}

// FetchScores retrieves the scores of one leaderboard at the given level.
// Options are sent as query parameters.
func (c *Client) FetchScores(ctx context.Context, leaderboardID string, level leaderboard.ScoreLevel, options map[string]any) ([]leaderboard.Row, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if !c.Initialized() {
		return nil, ErrNotInitialized
	}
	id := strings.TrimSpace(leaderboardID)
	if id == "" {
		return nil, fmt.Errorf("leaderboard id required")
	}

	query, err := encodeOptions(options)
	if err != nil {
		return nil, err
	}
	u := c.baseURL.JoinPath("v1", "leaderboard", url.PathEscape(id), "scores", string(level))
	u.RawQuery = query.Encode()

	var payload ScoresResponse
	if err := c.doURL(ctx, http.MethodGet, u, &payload); err != nil {
		return nil, err
	}
	c.logger.Debug("fetched scores", "leaderboard", id, "level", string(level), "rows", len(payload.Scores))
	return payload.Scores, nil
}

func (c *Client) doURL(ctx context.Context, method string, u *url.URL, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: u.Path, StatusCode: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// encodeOptions turns fetch options into query parameters. Scalars are
// formatted like table cells, slices repeat the parameter, and anything else
// is sent as JSON.
func encodeOptions(options map[string]any) (url.Values, error) {
	values := url.Values{}
	for key, v := range options {
		switch tv := v.(type) {
		case nil:
			continue
		case []any:
			for _, item := range tv {
				values.Add(key, leaderboard.FormatValue(item, true))
			}
		case []string:
			for _, item := range tv {
				values.Add(key, item)
			}
		case map[string]any:
			var buf bytes.Buffer
			if err := json.NewEncoder(&buf).Encode(tv); err != nil {
				return nil, fmt.Errorf("encode option %q: %w", key, err)
			}
			values.Set(key, strings.TrimSpace(buf.String()))
		default:
			values.Set(key, leaderboard.FormatValue(tv, true))
		}
	}
	return values, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse wwl url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse wwl url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
