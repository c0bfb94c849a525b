package httpclient

import (
	nethttp "net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseFor(t *testing.T, status int, rawURL string) *nethttp.Response {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return &nethttp.Response{
		StatusCode: status,
		Header:     nethttp.Header{},
		Request:    &nethttp.Request{URL: u},
	}
}

func TestNewOutcomeParsesJSONObject(t *testing.T) {
	resp := responseFor(t, 200, "https://api.example.com/widgets")
	o := newOutcome(resp, []byte(`{"id": 1, "name": "gizmo"}`))

	assert.True(t, o.IsJSON)
	assert.Equal(t, float64(1), o.Content["id"])
	assert.Equal(t, "gizmo", o.Content["name"])
	assert.Equal(t, "https://api.example.com", o.Host)
}

func TestNewOutcomeWrapsNonJSONAsText(t *testing.T) {
	resp := responseFor(t, 200, "https://api.example.com/widgets")
	o := newOutcome(resp, []byte("plain text response"))

	assert.False(t, o.IsJSON)
	assert.Equal(t, "plain text response", o.Content["text"])
	assert.Equal(t, []byte("plain text response"), o.RawBody)
}

func TestNewOutcomeEmptyBody(t *testing.T) {
	resp := responseFor(t, 204, "https://api.example.com/widgets")
	o := newOutcome(resp, nil)

	assert.False(t, o.IsJSON)
	assert.Equal(t, "", o.Content["text"])
}

func TestNewOutcomeHostIncludesPort(t *testing.T) {
	resp := responseFor(t, 200, "http://localhost:8081/v1/things")
	o := newOutcome(resp, []byte(`{}`))

	assert.Equal(t, "http://localhost:8081", o.Host)
}

func TestOutcomeClassifications(t *testing.T) {
	tests := []struct {
		status      int
		success     bool
		clientFault bool
		serverFault bool
	}{
		{200, true, false, false},
		{201, true, false, false},
		{299, true, false, false},
		{302, false, false, false},
		{400, false, true, false},
		{499, false, true, false},
		{500, false, false, true},
		{503, false, false, true},
		{599, false, false, true},
	}

	for _, tt := range tests {
		o := &Outcome{StatusCode: tt.status}
		assert.Equal(t, tt.success, o.Success(), "status %d success", tt.status)
		assert.Equal(t, tt.clientFault, o.ClientFault(), "status %d client fault", tt.status)
		assert.Equal(t, tt.serverFault, o.ServerFault(), "status %d server fault", tt.status)
	}
}

func TestNewOutcomeJSONArrayFallsBackToText(t *testing.T) {
	// Only JSON objects map onto Content; arrays are kept as raw text.
	resp := responseFor(t, 200, "https://api.example.com/widgets")
	o := newOutcome(resp, []byte(`[1, 2, 3]`))

	assert.False(t, o.IsJSON)
	assert.Equal(t, "[1, 2, 3]", o.Content["text"])
}
