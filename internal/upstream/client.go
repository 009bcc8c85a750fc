package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client interface for testability
type Client interface {
	FetchPlayByPlay(ctx context.Context, gameID string) ([]RawAction, error)
	FetchScoreboard(ctx context.Context) ([]RawGame, error)
}

// HTTPClient talks to the public live data CDN.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClient(baseURL string, ratePerSec int, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:       100,
		MaxConnsPerHost:    10,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec*2),
		logger:  logger,
	}
}

// FetchPlayByPlay returns every play action the feed currently has for a game.
// Failures are not retried here: a live session treats a single failed fetch
// as terminal, so retry policy belongs to the caller.
func (c *HTTPClient) FetchPlayByPlay(ctx context.Context, gameID string) ([]RawAction, error) {
	url := fmt.Sprintf("%s/static/json/liveData/playbyplay/playbyplay_%s.json", c.baseURL, gameID)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp playByPlayResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding play-by-play: %v", ErrMalformedFeed, err)
	}

	c.logger.Debug("fetched play-by-play",
		zap.String("gameID", gameID),
		zap.Int("actions", len(resp.Game.Actions)),
	)

	return resp.Game.Actions, nil
}

// FetchScoreboard returns the full slate for the feed's current game date.
func (c *HTTPClient) FetchScoreboard(ctx context.Context) ([]RawGame, error) {
	url := fmt.Sprintf("%s/static/json/liveData/scoreboard/todaysScoreboard_00.json", c.baseURL)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp scoreboardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding scoreboard: %v", ErrMalformedFeed, err)
	}

	c.logger.Debug("fetched scoreboard",
		zap.String("gameDate", resp.Scoreboard.GameDate),
		zap.Int("games", len(resp.Scoreboard.Games)),
	)

	return resp.Scoreboard.Games, nil
}

func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrGameNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: server error %d", ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	return body, nil
}
