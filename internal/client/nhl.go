package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"nhlstats/ingestion/internal/cache"
	"nhlstats/ingestion/internal/metrics"
	"nhlstats/ingestion/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNotFound is returned when the API answers 404
	ErrNotFound = errors.New("upstream resource not found")

	// ErrUnexpectedShape is returned when a document cannot be decoded or
	// fails validation
	ErrUnexpectedShape = models.ErrUnexpectedShape
)

// Client is the NHL stats API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
	maxRetries  int
	retryDelay  time.Duration
	validate    *validator.Validate
	docs        *cache.Documents
}

// NewClient creates a new NHL stats API client
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	// max 10 concurrent requests
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < cap(rateLimiter); i++ {
		rateLimiter <- struct{}{}
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		baseURL:     baseURL,
		rateLimiter: rateLimiter,
		maxRetries:  maxRetries,
		retryDelay:  500 * time.Millisecond,
		validate:    validator.New(),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithCache returns a copy of the client that reads through docs. The
// copy shares the HTTP client and rate limiter with the original.
func (c *Client) WithCache(docs *cache.Documents) *Client {
	cp := *c
	cp.docs = docs
	return &cp
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Schedule fetches the schedule of a date
func (c *Client) Schedule(ctx context.Context, date time.Time) (*models.ScheduleResponse, error) {
	var resp models.ScheduleResponse
	if err := c.fetch(ctx, "schedule", ScheduleURL(c.baseURL, date), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", date.Format(time.DateOnly), err)
	}
	return &resp, nil
}

// LiveFeed fetches the live feed of a game
func (c *Client) LiveFeed(ctx context.Context, gamePk int) (*models.LiveFeed, error) {
	var feed models.LiveFeed
	if err := c.fetch(ctx, "live_feed", LiveFeedURL(c.baseURL, gamePk), &feed); err != nil {
		return nil, fmt.Errorf("failed to fetch live feed for %d: %w", gamePk, err)
	}
	return &feed, nil
}

// Content fetches the media content of a game
func (c *Client) Content(ctx context.Context, gamePk int) (*models.GameContent, error) {
	var content models.GameContent
	if err := c.fetch(ctx, "content", ContentURL(c.baseURL, gamePk), &content); err != nil {
		return nil, fmt.Errorf("failed to fetch content for %d: %w", gamePk, err)
	}
	return &content, nil
}

// Person fetches a player profile
func (c *Client) Person(ctx context.Context, playerID int) (*models.Person, error) {
	var resp models.PeopleResponse
	if err := c.fetch(ctx, "people", PersonURL(c.baseURL, playerID), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch player %d: %w", playerID, err)
	}
	return &resp.People[0], nil
}

// Conferences fetches all conferences
func (c *Client) Conferences(ctx context.Context) ([]models.ConferenceInput, error) {
	var resp models.ConferencesResponse
	if err := c.fetch(ctx, "conferences", ConferencesURL(c.baseURL), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch conferences: %w", err)
	}
	return resp.Conferences, nil
}

// Divisions fetches all divisions
func (c *Client) Divisions(ctx context.Context) ([]models.DivisionInput, error) {
	var resp models.DivisionsResponse
	if err := c.fetch(ctx, "divisions", DivisionsURL(c.baseURL), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch divisions: %w", err)
	}
	return resp.Divisions, nil
}

// Teams fetches the teams of a season
func (c *Client) Teams(ctx context.Context, season string) ([]models.TeamInput, error) {
	var resp models.TeamsResponse
	if err := c.fetch(ctx, "teams", TeamsURL(c.baseURL, season), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch teams for season %s: %w", season, err)
	}
	return resp.Teams, nil
}

// Prewarm loads the content and live feed documents of the given games into
// the bound cache with at most limit requests in flight. It returns the
// number of cached documents, or 0 when the client has no cache.
func (c *Client) Prewarm(ctx context.Context, gamePks []int, limit int) int {
	if c.docs == nil {
		return 0
	}

	keys := make([]string, 0, len(gamePks)*2)
	for _, pk := range gamePks {
		keys = append(keys, ContentURL(c.baseURL, pk), LiveFeedURL(c.baseURL, pk))
	}

	return c.docs.Prewarm(ctx, keys, func(ctx context.Context, key string) ([]byte, error) {
		return c.get(ctx, "prewarm", key)
	}, limit)
}

// fetch loads url (through the cache when bound), decodes it into out and
// validates the result
func (c *Client) fetch(ctx context.Context, endpoint, url string, out interface{}) error {
	var (
		body []byte
		err  error
	)
	if c.docs != nil {
		body, err = c.docs.Get(ctx, url, func(ctx context.Context) ([]byte, error) {
			return c.get(ctx, endpoint, url)
		})
	} else {
		body, err = c.get(ctx, endpoint, url)
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnexpectedShape, url, err)
	}
	if err := c.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedShape, url, err)
	}
	return nil
}

// get performs a GET request with retry logic and rate limiting
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retry, err := c.do(ctx, endpoint, url, attempt)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}

	return nil, lastErr
}

// do performs a single attempt. retry reports whether the failure is
// transient.
func (c *Client) do(ctx context.Context, endpoint, url string, attempt int) (body []byte, retry bool, err error) {
	// Rate limiting: acquire semaphore
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case <-c.rateLimiter:
	}
	defer func() { c.rateLimiter <- struct{}{} }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "nhlstats-ingestion/1.0")

	log.Debug().
		Str("url", url).
		Int("attempt", attempt+1).
		Msg("Making API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		log.Debug().
			Str("url", url).
			Int("size", len(body)).
			Msg("API request successful")
		return body, false, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, url)

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		log.Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("attempt", attempt+1).
			Msg("Received retryable error")
		return nil, true, fmt.Errorf("API returned retryable status %d", resp.StatusCode)

	default:
		return nil, false, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}
}

// backoff doubles the base delay per attempt and adds up to half of it as
// jitter
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
	if half := c.retryDelay / 2; half > 0 {
		delay += rand.N(half)
	}
	return delay
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
