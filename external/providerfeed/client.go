// Package providerfeed pulls normalized match results from a scraper feed
// gateway. Each provider exposes its rows under /{provider}/results; the
// gateway normalizes scraper output into one perspective row per team.
package providerfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/dallasheidt14/PitchRank-sub004/internal/domain/game"
	"github.com/dallasheidt14/PitchRank-sub004/internal/platform/resilience"
	"github.com/dallasheidt14/PitchRank-sub004/internal/usecase"
)

const maxResponseBytes = 6 << 20

var tokenParamRegex = regexp.MustCompile(`token=[^&\s"']+`)
var errFeedTransient = crerr.New("provider feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *slog.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// resultRow is the gateway's wire shape for one perspective row. It matches
// what scraper adapters post to the ingest endpoints.
type resultRow struct {
	TeamID       string `json:"teamId"`
	TeamName     string `json:"teamName"`
	ClubName     string `json:"clubName"`
	OpponentID   string `json:"opponentId"`
	OpponentName string `json:"opponentName"`
	OpponentClub string `json:"opponentClub"`
	AgeGroup     string `json:"ageGroup"`
	Gender       string `json:"gender"`
	Date         string `json:"date"`
	Home         bool   `json:"home"`
	GoalsFor     *int   `json:"goalsFor"`
	GoalsAgainst *int   `json:"goalsAgainst"`
	Division     string `json:"division"`
	SourceURL    string `json:"sourceUrl"`
	ScrapedAt    string `json:"scrapedAt"`
}

type resultsEnvelope struct {
	Data []resultRow `json:"data"`
}

// FetchResults pulls all result rows a provider published since the given
// date. Rows with unparseable dates or timestamps are passed through with
// zero values so the ingest pipeline can quarantine them with a reason
// instead of the whole pull failing.
func (c *Client) FetchResults(ctx context.Context, provider string, since time.Time) ([]game.ProviderRecord, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("%w: provider cannot be empty", usecase.ErrInvalidInput)
	}

	query := map[string]string{}
	if !since.IsZero() {
		query["since"] = since.UTC().Format("2006-01-02")
	}

	var envelope resultsEnvelope
	if err := c.doJSON(ctx, "/"+url.PathEscape(provider)+"/results", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch results provider=%s: %w", provider, err)
	}

	records := make([]game.ProviderRecord, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		records = append(records, c.mapRow(provider, row))
	}

	return records, nil
}

func (c *Client) mapRow(provider string, row resultRow) game.ProviderRecord {
	date, _ := parseFeedDate(row.Date)

	scrapedAt := c.now().UTC()
	if raw := strings.TrimSpace(row.ScrapedAt); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			scrapedAt = parsed
		}
	}

	return game.ProviderRecord{
		Provider:     provider,
		TeamID:       row.TeamID,
		TeamName:     row.TeamName,
		ClubName:     row.ClubName,
		OpponentID:   row.OpponentID,
		OpponentName: row.OpponentName,
		OpponentClub: row.OpponentClub,
		AgeGroup:     row.AgeGroup,
		Gender:       row.Gender,
		Date:         date,
		Home:         row.Home,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
		Division:     row.Division,
		SourceURL:    row.SourceURL,
		ScrapedAt:    scrapedAt,
	}
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: provider feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if c.token != "" {
		values.Set("token", c.token)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFeedTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "provider feed request failed", "url", redactFeedURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func parseFeedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t, nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return tokenParamRegex.ReplaceAllString(value, "token=REDACTED")
}

func redactFeedURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("token") {
		query.Set("token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
