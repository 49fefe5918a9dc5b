// Package zillow owns outbound connectivity to the Zillow Bridge API:
// connection reuse, credential injection, bounded retries with backoff and
// jitter, rate-limit handling, and structured error translation. Callers
// receive either a mapped value or a classified *Error, never a raw
// transport fault.
package zillow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sap156/zillow-mcp-server/internal/retry"
)

// Endpoint is one of the supported upstream paths.
type Endpoint string

const (
	EndpointSearch    Endpoint = "properties/search"
	EndpointDetails   Endpoint = "properties/details"
	EndpointZestimate Endpoint = "zestimates"
	EndpointTrends    Endpoint = "market/trends"
	EndpointHealth    Endpoint = "health"
)

const (
	defaultBaseURL = "https://api.bridgeinteractive.com/v1"
	userAgent      = "Zillow-MCP-Server/1.0"

	maxBodyBytes = 4 << 20 // 4MB guard
)

// Config carries construction-time settings. Zero fields take the documented
// defaults; only APIKey is required.
type Config struct {
	APIKey            string
	BaseURL           string
	AttemptTimeout    time.Duration // per attempt, independent of the overall deadline
	CallDeadline      time.Duration // overall budget for one logical call
	MaxAttempts       int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RequestsPerSecond float64 // outbound limiter, protects the provider quota
}

func (c *Config) withDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 10 * time.Second
	}
	if c.CallDeadline <= 0 {
		c.CallDeadline = 30 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 4
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = 500 * time.Millisecond
	}
	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = 8 * time.Second
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
}

// Client executes one logical upstream operation per call. It is safe for
// concurrent use; the pooled transport is its only shared resource.
type Client struct {
	key      string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
	policy   retry.Policy
	deadline time.Duration
}

// NewClient builds a Client. A missing credential is a construction-time
// failure, not a per-call one.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("zillow: API key is required (set ZILLOW_API_KEY)")
	}
	cfg.withDefaults()

	return &Client{
		key:     cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: cfg.AttemptTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1),
		policy: retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			WaitMin:     cfg.RetryWaitMin,
			WaitMax:     cfg.RetryWaitMax,
		},
		deadline: cfg.CallDeadline,
	}, nil
}

// SearchQuery is the parameter set for SearchProperties. Nil optional fields
// are omitted from the upstream request.
type SearchQuery struct {
	Location    string
	ListingType string // forSale, forRent, or sold; empty means forSale
	MinPrice    *int
	MaxPrice    *int
	BedsMin     *int
	BedsMax     *int
	BathsMin    *float64
	BathsMax    *float64
	HomeTypes   []string
}

var listingTypes = map[string]bool{"forSale": true, "forRent": true, "sold": true}

// SearchProperties returns listings matching the criteria.
func (c *Client) SearchProperties(ctx context.Context, q SearchQuery) ([]PropertySummary, error) {
	if strings.TrimSpace(q.Location) == "" {
		return nil, invalidInput(EndpointSearch, "location is required")
	}
	listingType := q.ListingType
	if listingType == "" {
		listingType = "forSale"
	}
	if !listingTypes[listingType] {
		return nil, invalidInput(EndpointSearch, fmt.Sprintf("unsupported listing type %q", listingType))
	}

	v := url.Values{}
	v.Set("location", q.Location)
	v.Set("type", listingType)
	if q.MinPrice != nil {
		v.Set("price_min", strconv.Itoa(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		v.Set("price_max", strconv.Itoa(*q.MaxPrice))
	}
	if q.BedsMin != nil {
		v.Set("beds_min", strconv.Itoa(*q.BedsMin))
	}
	if q.BedsMax != nil {
		v.Set("beds_max", strconv.Itoa(*q.BedsMax))
	}
	if q.BathsMin != nil {
		v.Set("baths_min", strconv.FormatFloat(*q.BathsMin, 'f', -1, 64))
	}
	if q.BathsMax != nil {
		v.Set("baths_max", strconv.FormatFloat(*q.BathsMax, 'f', -1, 64))
	}
	for _, ht := range q.HomeTypes {
		v.Add("home_types", ht)
	}

	resp, err := c.do(ctx, EndpointSearch, v)
	if err != nil {
		return nil, err
	}
	out, err := mapSearchPayload(resp.body)
	if err != nil {
		return nil, contractViolation(EndpointSearch, resp.attempts, err)
	}
	return out, nil
}

// GetPropertyDetails looks up one property. Exactly one of propertyID and
// address must be supplied.
func (c *Client) GetPropertyDetails(ctx context.Context, propertyID, address string) (*PropertyDetail, error) {
	v, err := identityParams(EndpointDetails, propertyID, address)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, EndpointDetails, v)
	if err != nil {
		return nil, err
	}
	detail, err := mapDetailPayload(resp.body)
	if err != nil {
		return nil, contractViolation(EndpointDetails, resp.attempts, err)
	}
	return detail, nil
}

// GetZestimate returns the estimated value for one property. Exactly one of
// propertyID and address must be supplied.
func (c *Client) GetZestimate(ctx context.Context, propertyID, address string) (*ZestimateResult, error) {
	v, err := identityParams(EndpointZestimate, propertyID, address)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, EndpointZestimate, v)
	if err != nil {
		return nil, err
	}
	z, err := mapZestimatePayload(resp.body)
	if err != nil {
		return nil, contractViolation(EndpointZestimate, resp.attempts, err)
	}
	return z, nil
}

// DefaultTrendMetrics are requested when the caller names none.
var DefaultTrendMetrics = []string{"median_list_price", "median_sale_price", "median_days_on_market"}

var trendPeriods = map[string]bool{
	"1month": true, "3months": true, "6months": true,
	"1year": true, "5years": true, "10years": true, "all": true,
}

// GetMarketTrends returns market metrics for a location over a time period.
func (c *Client) GetMarketTrends(ctx context.Context, location string, metrics []string, timePeriod string) (*MarketTrend, error) {
	if strings.TrimSpace(location) == "" {
		return nil, invalidInput(EndpointTrends, "location is required")
	}
	if len(metrics) == 0 {
		metrics = DefaultTrendMetrics
	}
	if timePeriod == "" {
		timePeriod = "1year"
	}
	if !trendPeriods[timePeriod] {
		return nil, invalidInput(EndpointTrends, fmt.Sprintf("unsupported time period %q", timePeriod))
	}

	v := url.Values{}
	v.Set("location", location)
	v.Set("time_period", timePeriod)
	for _, m := range metrics {
		v.Add("metrics", m)
	}

	resp, err := c.do(ctx, EndpointTrends, v)
	if err != nil {
		return nil, err
	}
	series, err := mapTrendsPayload(resp.body)
	if err != nil {
		return nil, contractViolation(EndpointTrends, resp.attempts, err)
	}
	return &MarketTrend{Location: location, TimePeriod: timePeriod, Metrics: series}, nil
}

// CheckHealth performs a lightweight upstream call and reports reachability
// plus observed latency.
func (c *Client) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.do(ctx, EndpointHealth, nil)
	if err != nil {
		return nil, err
	}
	status, version := mapHealthPayload(resp.body)
	return &HealthStatus{
		Reachable:      true,
		Latency:        resp.latency,
		UpstreamStatus: status,
		Version:        version,
	}, nil
}

func identityParams(endpoint Endpoint, propertyID, address string) (url.Values, error) {
	propertyID = strings.TrimSpace(propertyID)
	address = strings.Join(strings.Fields(address), " ")
	switch {
	case propertyID == "" && address == "":
		return nil, invalidInput(endpoint, "either property_id or address must be provided")
	case propertyID != "" && address != "":
		return nil, invalidInput(endpoint, "property_id and address are mutually exclusive")
	}
	v := url.Values{}
	if propertyID != "" {
		v.Set("zpid", propertyID)
	} else {
		v.Set("address", address)
	}
	return v, nil
}

// upstreamResponse is the raw outcome of one successful logical call.
type upstreamResponse struct {
	status   int
	body     []byte
	latency  time.Duration
	attempts int
}

// do runs the retry loop for one logical call. Attempts are strictly
// sequential, bounded by the attempt ceiling and the overall deadline.
func (c *Client) do(ctx context.Context, endpoint Endpoint, q url.Values) (*upstreamResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()
	deadline, _ := ctx.Deadline()
	state := c.policy.Start(deadline)

	var last *Error
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindDeadlineExceeded, Endpoint: endpoint, Attempts: state.Attempts(),
				Message: "deadline exhausted while waiting for rate limiter", cause: err}
		}

		state.Record()
		resp, hint, attemptErr := c.attempt(ctx, endpoint, q)
		if attemptErr == nil {
			resp.attempts = state.Attempts()
			log.Printf("[INFO] zillow: %s status=%d attempts=%d latency=%s",
				endpoint, resp.status, resp.attempts, resp.latency.Round(time.Millisecond))
			return resp, nil
		}

		if ctx.Err() != nil {
			return nil, &Error{Kind: KindDeadlineExceeded, Endpoint: endpoint, Attempts: state.Attempts(),
				Message: "overall deadline exceeded", cause: attemptErr}
		}
		last = attemptErr
		last.Attempts = state.Attempts()
		if !last.Kind.retryable() {
			return nil, last
		}

		delay, err := state.Next(hint)
		if err != nil {
			if errors.Is(err, retry.ErrDeadlineExhausted) {
				return nil, &Error{Kind: KindDeadlineExceeded, Endpoint: endpoint, Attempts: state.Attempts(),
					Message: "retry budget exceeded the overall deadline", cause: last}
			}
			return nil, last
		}
		log.Printf("[WARN] zillow: %s attempt %d failed (%s), retrying in %s",
			endpoint, state.Attempts(), last.Kind, delay.Round(time.Millisecond))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &Error{Kind: KindDeadlineExceeded, Endpoint: endpoint, Attempts: state.Attempts(),
				Message: "overall deadline exceeded during backoff", cause: last}
		case <-timer.C:
		}
	}
}

// attempt issues exactly one network round trip. It returns either a 2xx
// response, or a classified error plus any provider retry hint.
func (c *Client) attempt(ctx context.Context, endpoint Endpoint, q url.Values) (*upstreamResponse, time.Duration, *Error) {
	u := c.baseURL + "/" + string(endpoint)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, &Error{Kind: KindTransient, Endpoint: endpoint, Message: "building request failed", cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	// Credential injected exactly once; it must never appear in logs.
	req.Header.Set("Authorization", "Bearer "+c.key)

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		return nil, 0, &Error{Kind: KindTransient, Endpoint: endpoint, Message: "connection failed or timed out", cause: err}
	}
	defer resp.Body.Close()

	body, err := readAllLimit(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, 0, &Error{Kind: KindTransient, Endpoint: endpoint, StatusCode: resp.StatusCode,
			Message: "reading response body failed", cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := classifyStatus(resp.StatusCode)
		return nil, retryAfterHint(resp.Header), &Error{
			Kind:       kind,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body, resp.StatusCode),
		}
	}
	return &upstreamResponse{status: resp.StatusCode, body: body, latency: latency}, 0, nil
}

// retryAfterHint extracts the provider-supplied delay floor, accepting both
// delta-seconds and HTTP-date forms.
func retryAfterHint(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// upstreamMessage pulls a human-readable reason out of an error body.
func upstreamMessage(body []byte, status int) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return "upstream returned " + http.StatusText(status)
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
