// Package graph provides a client for the ads platform Insights API.
package graph

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/adburn/internal/source"
)

const (
	defaultBaseURL    = "https://graph.facebook.com"
	defaultVersion    = "v19.0"
	defaultTimeout    = 30 * time.Second
	defaultRetries    = 4
	defaultRetryBase  = 500 * time.Millisecond
	defaultDatePreset = "last_30d"
	maxBodySize       = 16 << 20 // 16 MB
	maxPages          = 1000
)

var (
	// ErrUnauthorized indicates the access token is expired or invalid.
	ErrUnauthorized = errors.New("graph: unauthorized (access token expired or invalid)")
	// ErrRateLimited indicates the API throttled the request after all retries.
	ErrRateLimited = errors.New("graph: rate limited")
	// ErrNoCredentials indicates the access token or ad account is missing.
	ErrNoCredentials = errors.New("graph: access token and ad account id are required")
)

// Options configures a Client.
type Options struct {
	APIVersion  string
	AdAccountID string
	AccessToken string
	AppSecret   string // when set, requests carry appsecret_proof
	DatePreset  string
	Timeout     time.Duration

	BaseURL    string
	MaxRetries int
	RetryBase  time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client fetches insights rows for one ad account. It implements
// source.Fetcher.
type Client struct {
	opts   Options
	http   *http.Client
	logger *zap.Logger
}

var _ source.Fetcher = (*Client)(nil)

// NewClient creates a client. Returns ErrNoCredentials if the token or the
// ad account id is empty.
func NewClient(o Options) (*Client, error) {
	o.AccessToken = strings.TrimSpace(o.AccessToken)
	o.AdAccountID = strings.TrimPrefix(strings.TrimSpace(o.AdAccountID), "act_")
	if o.AccessToken == "" || o.AdAccountID == "" {
		return nil, ErrNoCredentials
	}
	if o.APIVersion == "" {
		o.APIVersion = defaultVersion
	}
	if o.DatePreset == "" {
		o.DatePreset = defaultDatePreset
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultRetries
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{opts: o, http: hc, logger: logger}, nil
}

// Fetch returns every row of the insights query, following paging.next
// until the last page.
func (c *Client) Fetch(ctx context.Context, q source.Query) ([]source.RawRow, error) {
	next := c.insightsURL(q)
	var rows []source.RawRow

	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return rows, fmt.Errorf("graph: more than %d pages", maxPages)
		}
		body, err := c.getWithRetry(ctx, next)
		if err != nil {
			return nil, err
		}
		var p insightsPage
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("graph: parsing insights: %w", err)
		}
		rows = append(rows, p.Data...)
		next = p.Paging.Next
	}

	c.logger.Debug("insights fetched",
		zap.String("level", q.Level),
		zap.Strings("breakdowns", q.Breakdowns),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// insightsURL builds the first page URL for q.
func (c *Client) insightsURL(q source.Query) string {
	v := url.Values{}
	v.Set("access_token", c.opts.AccessToken)
	if c.opts.AppSecret != "" {
		v.Set("appsecret_proof", appSecretProof(c.opts.AccessToken, c.opts.AppSecret))
	}
	v.Set("fields", strings.Join(q.Fields, ","))
	if q.Level != "" {
		v.Set("level", q.Level)
	}
	preset := q.DatePreset
	if preset == "" {
		preset = c.opts.DatePreset
	}
	v.Set("date_preset", preset)
	if q.TimeIncrement > 0 {
		v.Set("time_increment", strconv.Itoa(q.TimeIncrement))
	}
	if len(q.Breakdowns) > 0 {
		v.Set("breakdowns", strings.Join(q.Breakdowns, ","))
	}
	return fmt.Sprintf("%s/%s/act_%s/insights?%s",
		strings.TrimRight(c.opts.BaseURL, "/"), c.opts.APIVersion, c.opts.AdAccountID, v.Encode())
}

// getWithRetry retries throttled and transient failures with exponential
// backoff and jitter. Authorization failures are returned immediately.
func (c *Client) getWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		body, err := c.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
		if attempt == c.opts.MaxRetries {
			break
		}

		wait := time.Duration(1<<attempt) * c.opts.RetryBase
		wait += time.Duration(rand.Int63n(int64(c.opts.RetryBase)/2 + 1)) //nolint:gosec // jitter only
		c.logger.Warn("graph request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// get performs one GET request and returns the response body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("graph: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/adburn/1.0")

	//nolint:gosec // URL is built from the configured base or returned by the API's paging
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transientError{fmt.Errorf("graph: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &transientError{fmt.Errorf("graph: reading response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, classify(resp.StatusCode, body)
}

// classify maps a failed response onto the package's sentinel errors.
func classify(status int, body []byte) error {
	apiErr := decodeAPIError(body, status)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if apiErr != nil && rateLimitCodes[apiErr.Code] {
			return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
		}
		if apiErr != nil {
			return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
		}
		return ErrUnauthorized
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case apiErr != nil && rateLimitCodes[apiErr.Code]:
		return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
	case apiErr != nil && apiErr.Code == 190:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case status >= 500:
		if apiErr != nil {
			return &transientError{apiErr}
		}
		return &transientError{fmt.Errorf("graph: unexpected status %d", status)}
	case apiErr != nil:
		return apiErr
	default:
		return fmt.Errorf("graph: unexpected status %d", status)
	}
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var te *transientError
	return errors.Is(err, ErrRateLimited) || errors.As(err, &te)
}

// appSecretProof is the HMAC-SHA256 of the token keyed by the app secret.
func appSecretProof(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
