package cowin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/example/slotfinder/internal/internaltypes"
)

var (
	// ErrTransient marks failures that survived every retry but may clear up
	// on the next attempt (network errors, 429, 5xx).
	ErrTransient = errors.New("cowin: transient failure")
	ErrMalformed = errors.New("cowin: malformed response")
)

// StatusError is a non-retryable HTTP error returned by the API.
type StatusError struct {
	Code    int
	APICode string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cowin: http %d: %s %s", e.Code, e.APICode, e.Message)
	}
	return fmt.Sprintf("cowin: http %d", e.Code)
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	Backoff   time.Duration
	UserAgent string
	// OTPSecret switches authentication to the protected OTP endpoints.
	OTPSecret  string
	Logger     *log.Logger
	HTTPClient *http.Client
}

// Client talks to the CoWIN appointment API. It is safe for sequential use
// by one run; the district cache is guarded for the occasional parallel CLI
// call.
type Client struct {
	hc      *http.Client
	base    string
	ua      string
	retries int
	backoff time.Duration
	secret  string
	logger  *log.Logger

	mu        sync.Mutex
	districts map[string]int
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (X11; Linux x86_64) slotfinder/1.0"
	}
	return &Client{
		hc:      hc,
		base:    strings.TrimRight(opts.BaseURL, "/"),
		ua:      ua,
		retries: opts.Retries,
		backoff: backoff,
		secret:  opts.OTPSecret,
		logger:  logger,
	}
}

func (c *Client) Name() string { return "cowin" }

// Ping fetches the public state list.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.States(ctx)
	return err
}

// do issues one logical request, retrying transient failures. in and out are
// JSON bodies; either may be nil.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.backoff
			c.logger.Printf("cowin: %s %s retry %d/%d in %s: %v", method, path, attempt, c.retries, wait, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		status, respBody, err := c.roundTrip(ctx, method, path, token, query, body)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}
		switch {
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = fmt.Errorf("http %d", status)
			continue
		case status == http.StatusUnauthorized:
			return fmt.Errorf("cowin: %s %s: %w", method, path, internaltypes.ErrUnauthorized)
		case status >= 400:
			var apiErr struct {
				ErrorCode string `json:"errorCode"`
				Error     string `json:"error"`
			}
			_ = json.Unmarshal(respBody, &apiErr)
			return &StatusError{Code: status, APICode: apiErr.ErrorCode, Message: apiErr.Error}
		}
		if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			if out != nil {
				return fmt.Errorf("%w: %s %s: empty body", ErrMalformed, method, path)
			}
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrMalformed, method, path, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s %s: %v", ErrTransient, method, path, lastErr)
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, query url.Values, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("user-agent", c.ua)
	req.Header.Set("accept", "application/json")
	req.Header.Set("accept-language", "en_US")
	req.Header.Set("origin", "https://selfregistration.cowin.gov.in")
	req.Header.Set("referer", "https://selfregistration.cowin.gov.in/")
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}
	if token != "" {
		req.Header.Set("authorization", "Bearer "+token)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
