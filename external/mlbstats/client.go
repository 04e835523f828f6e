// Package mlbstats is a thin client for the MLB Stats API. Responses are
// returned both decoded and as raw payloads so callers can archive exactly
// what the provider served.
package mlbstats

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
	"github.com/statsloop/pitchdash/internal/platform/jsontree"
	"github.com/statsloop/pitchdash/internal/platform/logging"
	"github.com/statsloop/pitchdash/internal/platform/resilience"
	"github.com/statsloop/pitchdash/internal/usecase"
)

const (
	defaultBaseURL = "https://statsapi.mlb.com"
	defaultSportID = 17

	headshotURLFormat = "https://img.mlbstatic.com/mlb-photos/image/upload/w_240,q_auto:best/v1/people/%d/headshot/67/current"
)

var errStatsAPITransient = crerr.New("statsapi transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	SportID        int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	sportID        int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sportID := cfg.SportID
	if sportID <= 0 {
		sportID = defaultSportID
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		sportID:        sportID,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type scheduleEnvelope struct {
	Dates []struct {
		Date  string `json:"date"`
		Games []struct {
			GamePk int64 `json:"gamePk"`
		} `json:"games"`
	} `json:"dates"`
}

// GamePksByDate returns the game pks scheduled on a YYYY-MM-DD date, sorted
// ascending. A date with no games returns an empty slice and no error.
func (c *Client) GamePksByDate(ctx context.Context, date string) ([]int64, []rawfeed.Payload, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, nil, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}

	path := "/api/v1/schedule"
	query := map[string]string{
		"sportId": strconv.Itoa(c.sportID),
		"date":    date,
	}

	var envelope scheduleEnvelope
	raw, err := c.doJSON(ctx, path, query, &envelope)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch schedule date=%s: %w", date, err)
	}

	seen := make(map[int64]struct{}, 8)
	pks := make([]int64, 0, 8)
	for _, day := range envelope.Dates {
		for _, game := range day.Games {
			if game.GamePk <= 0 {
				continue
			}
			if _, ok := seen[game.GamePk]; ok {
				continue
			}
			seen[game.GamePk] = struct{}{}
			pks = append(pks, game.GamePk)
		}
	}
	sort.Slice(pks, func(i, j int) bool { return pks[i] < pks[j] })

	payload := buildPayload(rawfeed.EntitySchedule, date, raw)
	payload.Date = date
	return pks, []rawfeed.Payload{payload}, nil
}

// LiveFeed fetches one game's live feed and parses it with member order
// preserved, which downstream flattening depends on.
func (c *Client) LiveFeed(ctx context.Context, gamePk int64) (jsontree.Node, rawfeed.Payload, error) {
	if gamePk <= 0 {
		return jsontree.Null(), rawfeed.Payload{}, fmt.Errorf("%w: game pk must be greater than zero", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/api/v1.1/game/%d/feed/live", gamePk)
	raw, err := c.doJSON(ctx, path, nil, nil)
	if err != nil {
		return jsontree.Null(), rawfeed.Payload{}, fmt.Errorf("fetch live feed game_pk=%d: %w", gamePk, err)
	}

	feed, err := jsontree.Parse(raw)
	if err != nil {
		return jsontree.Null(), rawfeed.Payload{}, fmt.Errorf("parse live feed game_pk=%d: %w", gamePk, err)
	}

	payload := buildPayload(rawfeed.EntityLiveFeed, strconv.FormatInt(gamePk, 10), raw)
	payload.GamePk = gamePk
	return feed, payload, nil
}

type peopleEnvelope struct {
	People []struct {
		ID            int64  `json:"id"`
		FullName      string `json:"fullName"`
		PrimaryNumber string `json:"primaryNumber"`
		CurrentAge    int    `json:"currentAge"`
		Height        string `json:"height"`
		Weight        int    `json:"weight"`
		BirthCity     string `json:"birthCity"`
		BirthCountry  string `json:"birthCountry"`
		MLBDebutDate  string `json:"mlbDebutDate"`
		Active        bool   `json:"active"`
		PitchHand     struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"pitchHand"`
		PrimaryPosition struct {
			Name         string `json:"name"`
			Abbreviation string `json:"abbreviation"`
		} `json:"primaryPosition"`
		CurrentTeam struct {
			Name string `json:"name"`
		} `json:"currentTeam"`
	} `json:"people"`
}

// PersonByID fetches a player bio. Unknown ids map to usecase.ErrNotFound.
func (c *Client) PersonByID(ctx context.Context, personID int64) (usecase.Person, rawfeed.Payload, error) {
	if personID <= 0 {
		return usecase.Person{}, rawfeed.Payload{}, fmt.Errorf("%w: person id must be greater than zero", usecase.ErrInvalidInput)
	}

	path := fmt.Sprintf("/api/v1/people/%d", personID)
	query := map[string]string{
		"hydrate": "currentTeam",
	}

	var envelope peopleEnvelope
	raw, err := c.doJSON(ctx, path, query, &envelope)
	if err != nil {
		return usecase.Person{}, rawfeed.Payload{}, fmt.Errorf("fetch person person_id=%d: %w", personID, err)
	}
	if len(envelope.People) == 0 {
		return usecase.Person{}, rawfeed.Payload{}, fmt.Errorf("%w: person %d", usecase.ErrNotFound, personID)
	}

	item := envelope.People[0]
	person := usecase.Person{
		ID:            item.ID,
		FullName:      strings.TrimSpace(item.FullName),
		PrimaryNumber: strings.TrimSpace(item.PrimaryNumber),
		CurrentAge:    item.CurrentAge,
		Height:        strings.TrimSpace(item.Height),
		Weight:        item.Weight,
		PitchHand:     firstNonEmpty(item.PitchHand.Description, item.PitchHand.Code),
		Position:      firstNonEmpty(item.PrimaryPosition.Abbreviation, item.PrimaryPosition.Name),
		CurrentTeam:   strings.TrimSpace(item.CurrentTeam.Name),
		BirthCity:     strings.TrimSpace(item.BirthCity),
		BirthCountry:  strings.TrimSpace(item.BirthCountry),
		MLBDebutDate:  strings.TrimSpace(item.MLBDebutDate),
		HeadshotURL:   fmt.Sprintf(headshotURLFormat, item.ID),
		Active:        item.Active,
	}

	payload := buildPayload(rawfeed.EntityPerson, strconv.FormatInt(personID, 10), raw)
	return person, payload, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "statsapi circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode provider payload: %w", err)
		}
	}

	return raw, nil
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
			lastErr = fmt.Errorf("%w: send request: %v", errStatsAPITransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errStatsAPITransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStatsAPITransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				if resp.StatusCode == http.StatusNotFound {
					return nil, fmt.Errorf("%w: provider status=404", usecase.ErrNotFound)
				}
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "statsapi request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errStatsAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func buildPayload(entityType, entityKey string, raw []byte) rawfeed.Payload {
	digest := sha256.Sum256(raw)
	return rawfeed.Payload{
		Source:      rawfeed.SourceStatsAPI,
		EntityType:  entityType,
		EntityKey:   entityKey,
		PayloadJSON: string(raw),
		PayloadHash: hex.EncodeToString(digest[:]),
		FetchedAt:   time.Now().UTC(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
