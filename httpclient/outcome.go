package httpclient

import (
	"encoding/json"
	nethttp "net/http"
)

// Outcome is the classified result of one completed HTTP exchange. It is
// immutable once constructed.
type Outcome struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Content is the body parsed as a JSON object. When the body is not a
	// JSON object it is held as {"text": <raw body>} and IsJSON is false.
	Content map[string]any

	// RawBody is the unparsed response body.
	RawBody []byte

	// IsJSON reports whether Content was parsed from the body.
	IsJSON bool

	// Host is the response origin, "scheme://host".
	Host string

	// Headers are the response headers.
	Headers nethttp.Header
}

// newOutcome classifies a completed response. The body must already be fully
// read; resp.Request is used to derive the origin.
func newOutcome(resp *nethttp.Response, body []byte) *Outcome {
	o := &Outcome{
		StatusCode: resp.StatusCode,
		RawBody:    body,
		Headers:    resp.Header,
	}

	if resp.Request != nil && resp.Request.URL != nil {
		o.Host = resp.Request.URL.Scheme + "://" + resp.Request.URL.Host
	}

	var content map[string]any
	if err := json.Unmarshal(body, &content); err == nil && content != nil {
		o.Content = content
		o.IsJSON = true
	} else {
		o.Content = map[string]any{"text": string(body)}
	}

	return o
}

// Success reports a 2xx status.
func (o *Outcome) Success() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}

// ClientFault reports a 4xx status.
func (o *Outcome) ClientFault() bool {
	return o.StatusCode >= 400 && o.StatusCode < 500
}

// ServerFault reports a 5xx status.
func (o *Outcome) ServerFault() bool {
	return o.StatusCode >= 500 && o.StatusCode < 600
}
