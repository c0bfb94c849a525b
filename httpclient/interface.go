// Package httpclient implements the outbound request client: a REST client
// bound to a single external host that classifies responses and retries
// transient failures with exponential backoff.
package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/glueworks/servicekit/config"
	"github.com/glueworks/servicekit/logger"
	"github.com/glueworks/servicekit/trace"
)

// HeaderXRequestID is the header used to correlate outbound requests
const HeaderXRequestID = trace.HeaderXRequestID

// Default per-call settings, applied when the request plan leaves the
// corresponding field zero.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultRetries       = 1
	DefaultRetryDelay    = time.Second
	DefaultBackoffFactor = 1.15

	defaultMaxPayloadLogBytes = 1024
)

// Client is the outbound request client interface. One attempt loop per call,
// no state shared between calls.
type Client interface {
	Get(ctx context.Context, plan *Plan) (*Outcome, error)
	Post(ctx context.Context, plan *Plan) (*Outcome, error)
	Put(ctx context.Context, plan *Plan) (*Outcome, error)
	Do(ctx context.Context, method string, plan *Plan) (*Outcome, error)
}

// Plan is the caller-supplied configuration for one logical call. A Plan is
// constructed fresh per call and not reused.
type Plan struct {
	// Endpoint is a path, relative or absolute, joined to the client's host
	// and optional API version with slash normalization.
	Endpoint string

	// QueryParams are appended to the URL query string.
	QueryParams map[string]string

	// Body is JSON-encoded when non-nil.
	Body any

	// Headers are merged over the client's default headers; caller values win.
	Headers map[string]string

	// Timeout is the per-attempt wall-clock budget. Zero means DefaultTimeout.
	Timeout time.Duration `validate:"gt=0"`

	// Retries is the maximum attempt count. Zero means DefaultRetries (1,
	// i.e. no retry).
	Retries int `validate:"gte=1"`

	// RetryDelay is the backoff delay before the second attempt. Zero means
	// DefaultRetryDelay.
	RetryDelay time.Duration `validate:"gt=0"`

	// BackoffFactor is the ratio by which the delay grows per retry. Zero
	// means DefaultBackoffFactor.
	BackoffFactor float64 `validate:"gte=1"`

	// FollowRedirects enables transparent redirect following.
	FollowRedirects bool

	// ReturnErrorStatus, when true, returns non-2xx outcomes to the caller
	// for inspection instead of converting them into failures.
	ReturnErrorStatus bool
}

// RequestInterceptor is called on each attempt before the request is sent.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// Options is the construction-time configuration of a client, fixed per
// instance.
type Options struct {
	// Host is the base origin, e.g. "https://api.example.com". A trailing
	// slash is stripped.
	Host string

	// APIVersion is an optional path segment inserted between host and
	// endpoint, e.g. "v2".
	APIVersion string

	// AppName is sent as the outbound User-Agent.
	AppName string

	// Credentials are held for auth-aware wrappers; the retry core does not
	// use them.
	Username     string
	Password     string
	AuthEndpoint string

	// Defaults for per-call plan fields left zero.
	Timeout       time.Duration
	Retries       int
	RetryDelay    time.Duration
	BackoffFactor float64

	// Interceptors run on every attempt before the request is sent.
	Interceptors []RequestInterceptor

	// LogPayloads enables debug-level logging of headers and body payloads.
	LogPayloads bool

	// MaxPayloadLogBytes caps the body bytes logged when LogPayloads is on.
	MaxPayloadLogBytes int
}

// NewFromConfig builds a client from the toolkit configuration.
func NewFromConfig(appName string, cc config.ClientConfig, log logger.Logger) Client {
	return New(Options{
		Host:               cc.Host,
		APIVersion:         cc.APIVersion,
		AppName:            appName,
		Timeout:            cc.Timeout,
		Retries:            cc.Retries,
		RetryDelay:         cc.RetryDelay,
		BackoffFactor:      cc.BackoffFactor,
		LogPayloads:        cc.LogPayloads,
		MaxPayloadLogBytes: cc.MaxPayloadLogBytes,
	}, log)
}

// NewRequestIDInterceptor returns an interceptor that stamps the request ID
// from context onto outbound requests, preserving an existing header value.
func NewRequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(HeaderXRequestID) == "" {
			req.Header.Set(HeaderXRequestID, trace.EnsureID(ctx))
		}
		return nil
	}
}
