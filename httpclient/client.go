package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/glueworks/servicekit/logger"
	"github.com/glueworks/servicekit/trace"
)

var planValidator = validator.New(validator.WithRequiredStructEnabled())

// errInterceptor marks interceptor errors so the attempt loop does not treat
// them as retryable transport failures.
var errInterceptor = errors.New("request interceptor failed")

type client struct {
	host         string
	apiVersion   string
	appName      string
	username     string
	password     string
	authEndpoint string

	defaults     Plan
	interceptors []RequestInterceptor

	logPayloads        bool
	maxPayloadLogBytes int

	logger logger.Logger
}

// New creates an outbound request client for the given base host.
func New(opts Options, log logger.Logger) Client {
	c := &client{
		host:         strings.TrimRight(opts.Host, "/"),
		apiVersion:   strings.Trim(opts.APIVersion, "/"),
		appName:      opts.AppName,
		username:     opts.Username,
		password:     opts.Password,
		authEndpoint: opts.AuthEndpoint,
		defaults: Plan{
			Timeout:       opts.Timeout,
			Retries:       opts.Retries,
			RetryDelay:    opts.RetryDelay,
			BackoffFactor: opts.BackoffFactor,
		},
		interceptors:       opts.Interceptors,
		logPayloads:        opts.LogPayloads,
		maxPayloadLogBytes: opts.MaxPayloadLogBytes,
		logger:             log,
	}

	if c.defaults.Timeout == 0 {
		c.defaults.Timeout = DefaultTimeout
	}
	if c.defaults.Retries == 0 {
		c.defaults.Retries = DefaultRetries
	}
	if c.defaults.RetryDelay == 0 {
		c.defaults.RetryDelay = DefaultRetryDelay
	}
	if c.defaults.BackoffFactor == 0 {
		c.defaults.BackoffFactor = DefaultBackoffFactor
	}
	if c.maxPayloadLogBytes == 0 {
		c.maxPayloadLogBytes = defaultMaxPayloadLogBytes
	}

	return c
}

// Get issues a GET request for the plan.
func (c *client) Get(ctx context.Context, plan *Plan) (*Outcome, error) {
	return c.Do(ctx, nethttp.MethodGet, plan)
}

// Post issues a POST request for the plan.
func (c *client) Post(ctx context.Context, plan *Plan) (*Outcome, error) {
	return c.Do(ctx, nethttp.MethodPost, plan)
}

// Put issues a PUT request for the plan.
func (c *client) Put(ctx context.Context, plan *Plan) (*Outcome, error) {
	return c.Do(ctx, nethttp.MethodPut, plan)
}

// Do performs the HTTP exchange described by plan, classifying the result and
// retrying server faults with growing backoff. It returns either a successful
// Outcome or a Failure; failures are never swallowed. The method is
// case-insensitive.
func (c *client) Do(ctx context.Context, method string, plan *Plan) (*Outcome, error) {
	if plan == nil {
		plan = &Plan{}
	}

	p := c.resolve(plan)
	if err := planValidator.Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid request plan: %w", err)
	}

	target, err := c.buildURL(p.Endpoint, p.QueryParams)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}

	var body []byte
	if p.Body != nil {
		body, err = json.Marshal(p.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	headers := c.mergeHeaders(p.Headers)

	// Every call owns its transport; connections are released when the call
	// exits, on every path.
	httpClient := &nethttp.Client{
		Transport: &nethttp.Transport{DisableKeepAlives: true},
	}
	if !p.FollowRedirects {
		httpClient.CheckRedirect = func(*nethttp.Request, []*nethttp.Request) error {
			return nethttp.ErrUseLastResponse
		}
	}
	defer httpClient.CloseIdleConnections()

	// Backoff state is local to the call so concurrent calls never interfere.
	wait := newBackoff(p.RetryDelay, p.BackoffFactor)

	for attempt := 1; attempt <= p.Retries; attempt++ {
		outcome, err := c.send(ctx, httpClient, strings.ToUpper(method), target, headers, body, p.Timeout)

		if err != nil {
			if ctx.Err() != nil {
				// Caller-driven cancellation: no partial outcome, no failure
				// wrapping.
				return nil, ctx.Err()
			}
			if errors.Is(err, errInterceptor) {
				return nil, err
			}
			if isTimeoutError(err) {
				return nil, c.terminal(NewTimeoutFailure(c.host))
			}
			if attempt == p.Retries {
				return nil, c.terminal(NewUnknownFailure(c.host, err))
			}
		} else {
			if outcome.Success() || p.ReturnErrorStatus {
				return outcome, nil
			}
			if outcome.ClientFault() {
				return nil, c.terminal(NewClientFailure(outcome.Host, outcome.StatusCode, outcome.Content))
			}
			if !outcome.ServerFault() {
				// 1xx/3xx: nothing to raise, nothing to retry.
				return outcome, nil
			}
			if attempt == p.Retries {
				return nil, c.terminal(NewServerFailure(outcome.Host, outcome.StatusCode))
			}
		}

		delay := wait.next()
		c.logger.Warn().
			Int("attempt", attempt).
			Float64("delay_seconds", delay).
			Str("host", c.host).
			Msg("Retrying request")

		if err := sleep(ctx, secondsToDuration(delay)); err != nil {
			return nil, err
		}
	}

	// Defensive: the loop always returns from its last attempt.
	return nil, c.terminal(NewExhaustedFailure(c.host))
}

// resolve copies the plan and fills zero fields with the client defaults.
func (c *client) resolve(plan *Plan) Plan {
	p := *plan
	if p.Timeout == 0 {
		p.Timeout = c.defaults.Timeout
	}
	if p.Retries == 0 {
		p.Retries = c.defaults.Retries
	}
	if p.RetryDelay == 0 {
		p.RetryDelay = c.defaults.RetryDelay
	}
	if p.BackoffFactor == 0 {
		p.BackoffFactor = c.defaults.BackoffFactor
	}
	return p
}

// buildURL joins host, optional API version and endpoint with slash
// normalization at every join point and appends the query parameters.
func (c *client) buildURL(endpoint string, query map[string]string) (string, error) {
	parts := []string{c.host}
	if c.apiVersion != "" {
		parts = append(parts, c.apiVersion)
	}
	parts = append(parts, strings.TrimLeft(endpoint, "/"))

	u, err := url.Parse(strings.Join(parts, "/"))
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// mergeHeaders layers caller headers over the client defaults; caller values
// win where both set the same header.
func (c *client) mergeHeaders(headers map[string]string) map[string]string {
	merged := map[string]string{
		"User-Agent":   c.appName,
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
	for k, v := range headers {
		merged[k] = v
	}
	return merged
}

// send performs a single attempt within its own timeout budget.
func (c *client) send(ctx context.Context, httpClient *nethttp.Client, method, target string, headers map[string]string, body []byte, timeout time.Duration) (*Outcome, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader = nethttp.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := nethttp.NewRequestWithContext(attemptCtx, method, target, reader)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	requestID := trace.EnsureID(ctx)
	if req.Header.Get(HeaderXRequestID) == "" {
		req.Header.Set(HeaderXRequestID, requestID)
	}

	for _, interceptor := range c.interceptors {
		if err := interceptor(ctx, req); err != nil {
			return nil, fmt.Errorf("%w: %w", errInterceptor, err)
		}
	}

	c.logRequest(req, body, requestID)

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	outcome := newOutcome(resp, raw)
	c.logResponse(outcome, time.Since(start), requestID)

	return outcome, nil
}

// terminal logs a failure at error level and returns it unchanged.
func (c *client) terminal(f Failure) Failure {
	event := c.logger.Error().
		Str("host", f.Host()).
		Str("failure_kind", f.Kind().String())
	if sc, ok := f.(interface{ StatusCode() int }); ok {
		event = event.Int("status", sc.StatusCode())
	}
	event.Msg("Outbound request failed")
	return f
}

// sleep suspends for d without blocking other work, aborting promptly when
// ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isTimeoutError reports whether err describes an attempt that ran out of
// its time budget.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
