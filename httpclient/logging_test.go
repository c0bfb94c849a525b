package httpclient

import (
	"context"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggingClient(log *fakeLogger, payloads bool, maxBytes int) *client {
	return New(Options{
		Host:               "https://api.example.com",
		AppName:            testAppName,
		LogPayloads:        payloads,
		MaxPayloadLogBytes: maxBytes,
	}, log).(*client)
}

func TestLogRequestBasic(t *testing.T) {
	log := &fakeLogger{}
	c := newLoggingClient(log, false, 1024)

	req, err := nethttp.NewRequestWithContext(context.Background(), "POST", "https://api.example.com/users", nethttp.NoBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")

	body := []byte(`{"name": "test user"}`)
	c.logRequest(req, body, "trace-123")

	infoEvents := log.eventsByLevel("info")
	require.Len(t, infoEvents, 1)

	event := infoEvents[0]
	assert.Equal(t, "REST client request", event.message)
	assert.Equal(t, "outbound", event.fields["direction"])
	assert.Equal(t, "POST", event.fields["method"])
	assert.Equal(t, "https://api.example.com/users", event.fields["url"])
	assert.Equal(t, "trace-123", event.fields["request_id"])
	assert.Equal(t, 2, event.fields["header_count"])
	assert.Equal(t, len(body), event.fields["body_size"])

	assert.Empty(t, log.eventsByLevel("debug"), "no payload logging unless enabled")
}

func TestLogRequestEmptyBodyOmitsSizeFields(t *testing.T) {
	log := &fakeLogger{}
	c := newLoggingClient(log, false, 1024)

	req, err := nethttp.NewRequestWithContext(context.Background(), "GET", "https://api.example.com/status", nethttp.NoBody)
	require.NoError(t, err)

	c.logRequest(req, nil, "trace-456")

	infoEvents := log.eventsByLevel("info")
	require.Len(t, infoEvents, 1)

	_, hasBodySize := infoEvents[0].fields["body_size"]
	assert.False(t, hasBodySize)
	_, hasHeaderCount := infoEvents[0].fields["header_count"]
	assert.False(t, hasHeaderCount)
}

func TestLogRequestPayloadPreview(t *testing.T) {
	log := &fakeLogger{}
	c := newLoggingClient(log, true, 10)

	req, err := nethttp.NewRequestWithContext(context.Background(), "POST", "https://api.example.com/upload", nethttp.NoBody)
	require.NoError(t, err)

	largeBody := []byte("This body is longer than the preview limit")
	c.logRequest(req, largeBody, "trace-truncate")

	debugEvents := log.eventsByLevel("debug")
	require.Len(t, debugEvents, 1)

	event := debugEvents[0]
	assert.Equal(t, len(largeBody), event.fields["body_size"])
	assert.Equal(t, "true", event.fields["body_truncated"])
	assert.Equal(t, largeBody[:10], event.fields["body_preview"])
}

func TestLogResponseBasic(t *testing.T) {
	log := &fakeLogger{}
	c := newLoggingClient(log, false, 1024)

	outcome := &Outcome{
		StatusCode: 200,
		RawBody:    []byte(`{"success": true}`),
		Headers:    nethttp.Header{"Content-Type": []string{"application/json"}},
	}

	c.logResponse(outcome, 250*time.Millisecond, "trace-resp")

	infoEvents := log.eventsByLevel("info")
	require.Len(t, infoEvents, 1)

	event := infoEvents[0]
	assert.Equal(t, "REST client response", event.message)
	assert.Equal(t, "inbound", event.fields["direction"])
	assert.Equal(t, 200, event.fields["status"])
	assert.Equal(t, 250*time.Millisecond, event.fields["elapsed"])
	assert.Equal(t, "trace-resp", event.fields["request_id"])
	assert.Equal(t, len(outcome.RawBody), event.fields["body_size"])
}

func TestLogResponsePayloadPreviewNotTruncated(t *testing.T) {
	log := &fakeLogger{}
	c := newLoggingClient(log, true, 100)

	outcome := &Outcome{
		StatusCode: 201,
		RawBody:    []byte(`{"id": 123}`),
		Headers:    nethttp.Header{},
	}

	c.logResponse(outcome, time.Millisecond, "trace-debug")

	debugEvents := log.eventsByLevel("debug")
	require.Len(t, debugEvents, 1)

	event := debugEvents[0]
	assert.Equal(t, "false", event.fields["body_truncated"])
	assert.Equal(t, outcome.RawBody, event.fields["body_preview"])
}

func TestPayloadPreviewZeroLimitUsesDefault(t *testing.T) {
	c := newLoggingClient(&fakeLogger{}, true, 0)

	large := make([]byte, 1500)
	preview, truncated := c.payloadPreview(large)

	assert.True(t, truncated)
	assert.Len(t, preview, defaultMaxPayloadLogBytes)
}
