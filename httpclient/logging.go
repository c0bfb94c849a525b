package httpclient

import (
	nethttp "net/http"
	"strconv"
	"time"
)

// logRequest records one outbound attempt at info level, with an optional
// debug event carrying header and payload previews.
func (c *client) logRequest(req *nethttp.Request, body []byte, requestID string) {
	event := c.logger.Info().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID)

	if len(req.Header) > 0 {
		event = event.Int("header_count", len(req.Header))
	}
	if len(body) > 0 {
		event = event.Int("body_size", len(body))
	}
	event.Msg("REST client request")

	if !c.logPayloads {
		return
	}

	preview, truncated := c.payloadPreview(body)
	c.logger.Debug().
		Str("direction", "outbound").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Interface("headers", req.Header).
		Int("body_size", len(body)).
		Str("body_truncated", strconv.FormatBool(truncated)).
		Bytes("body_preview", preview).
		Msg("REST client request")
}

// logResponse records one classified outcome at info level, with an optional
// debug event carrying header and payload previews.
func (c *client) logResponse(outcome *Outcome, elapsed time.Duration, requestID string) {
	event := c.logger.Info().
		Str("direction", "inbound").
		Int("status", outcome.StatusCode).
		Dur("elapsed", elapsed).
		Str("request_id", requestID)

	if len(outcome.RawBody) > 0 {
		event = event.Int("body_size", len(outcome.RawBody))
	}
	event.Msg("REST client response")

	if !c.logPayloads {
		return
	}

	preview, truncated := c.payloadPreview(outcome.RawBody)
	c.logger.Debug().
		Str("direction", "inbound").
		Int("status", outcome.StatusCode).
		Str("request_id", requestID).
		Interface("headers", outcome.Headers).
		Int("body_size", len(outcome.RawBody)).
		Str("body_truncated", strconv.FormatBool(truncated)).
		Bytes("body_preview", preview).
		Msg("REST client response")
}

func (c *client) payloadPreview(body []byte) (preview []byte, truncated bool) {
	limit := c.maxPayloadLogBytes
	if limit <= 0 {
		limit = defaultMaxPayloadLogBytes
	}
	if len(body) > limit {
		return body[:limit], true
	}
	return body, false
}
