package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"played-together/internal/config"
	"played-together/internal/constants"
	"played-together/internal/domain"
	"played-together/internal/metrics"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the Riot API answers 404.
var ErrNotFound = errors.New("riot api: not found")

type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riot api error: %s returned %d", e.Endpoint, e.Code)
}

const (
	endpointAccount  = "account"
	endpointMatchIDs = "match_ids"
	endpointMatch    = "match"
)

type RiotClient struct {
	apiKey      string
	hostFormat  string
	timeout     time.Duration
	client      *fasthttp.Client
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo mirrors the last X-App/X-Method rate limit headers seen.
type RateLimitInfo struct {
	AppLimit    string `json:"app_limit"`
	AppCount    string `json:"app_count"`
	MethodLimit string `json:"method_limit"`
	MethodCount string `json:"method_count"`

	// seconds, only set on 429
	RetryAfter int `json:"retry_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config, m *metrics.Metrics) *RiotClient {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = constants.APIDefaultRateLimit
	}
	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = constants.ExternalAPITimeout
	}
	hostFormat := cfg.APIHostFormat
	if hostFormat == "" {
		hostFormat = constants.RiotAPIHostFormat
	}

	return &RiotClient{
		apiKey:     cfg.APIKey,
		hostFormat: hostFormat,
		timeout:    timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:        constants.APIMaxConnsPerHost,
			ReadTimeout:            timeout,
			WriteTimeout:           timeout,
			MaxIdleConnDuration:    constants.APIMaxIdleConnDuration,
			DisablePathNormalizing: true,
		},
		limiter: rate.NewLimiter(rate.Limit(limit), max(1, int(limit))),
		metrics: m,
	}
}

func (c *RiotClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v := string(resp.Header.Peek("X-App-Rate-Limit")); v != "" {
		c.rateLimit.AppLimit = v
	}
	if v := string(resp.Header.Peek("X-App-Rate-Limit-Count")); v != "" {
		c.rateLimit.AppCount = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit")); v != "" {
		c.rateLimit.MethodLimit = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit-Count")); v != "" {
		c.rateLimit.MethodCount = v
	}
	c.rateLimit.RetryAfter = 0
	if v := string(resp.Header.Peek("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.rateLimit.RetryAfter = secs
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *RiotClient) baseURL(route domain.Route) string {
	if strings.Contains(c.hostFormat, "%s") {
		return fmt.Sprintf(c.hostFormat, route)
	}
	return strings.TrimSuffix(c.hostFormat, "/")
}

func (c *RiotClient) GetAccountByRiotID(ctx context.Context, route domain.Route, gameName, tagLine string) (*AccountResponse, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.baseURL(route), url.PathEscape(gameName), url.PathEscape(tagLine))
	return doRequest[AccountResponse](ctx, c, endpointAccount, u)
}

// MatchIDsParams bounds a match-id listing. Zero values are left out of the
// request.
type MatchIDsParams struct {
	StartTime time.Time
	Count     int
}

func (c *RiotClient) GetMatchIDs(ctx context.Context, route domain.Route, puuid string, params MatchIDsParams) ([]string, error) {
	q := url.Values{}
	if !params.StartTime.IsZero() {
		q.Set("startTime", strconv.FormatInt(params.StartTime.Unix(), 10))
	}
	if params.Count > 0 {
		q.Set("count", strconv.Itoa(params.Count))
	}

	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids", c.baseURL(route), url.PathEscape(puuid))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	ids, err := doRequest[[]string](ctx, c, endpointMatchIDs, u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *RiotClient) GetMatch(ctx context.Context, route domain.Route, matchID string) (*MatchResponse, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.baseURL(route), url.PathEscape(matchID))
	return doRequest[MatchResponse](ctx, c, endpointMatch, u)
}

func doRequest[T any](ctx context.Context, client *RiotClient, endpoint, url string) (*T, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.client.DoDeadline(req, resp, deadline)
	} else {
		err = client.client.DoTimeout(req, resp, client.timeout)
	}
	if err != nil {
		client.observe(endpoint, 0, start)
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}

	client.observe(endpoint, resp.StatusCode(), start)
	client.updateRateLimit(resp)

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return &result, nil
}

func (c *RiotClient) observe(endpoint string, status int, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveAPIRequest(endpoint, status, start)
	}
}

type AccountResponse struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	DataVersion  string   `json:"dataVersion"`
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	GameCreation       int64              `json:"gameCreation"`
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	GameDuration       int64              `json:"gameDuration"`
	GameMode           string             `json:"gameMode"`
	GameType           string             `json:"gameType"`
	GameVersion        string             `json:"gameVersion"`
	QueueID            int                `json:"queueId"`
	PlatformID         string             `json:"platformId"`
	Participants       []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	Puuid          string `json:"puuid"`
	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagline  string `json:"riotIdTagline"`
	ChampionName   string `json:"championName"`
	TeamPosition   string `json:"teamPosition"`
	TeamID         int    `json:"teamId"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	Win            bool   `json:"win"`
}
