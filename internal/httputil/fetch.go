// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/websearch/internal/apperr"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Get issues a GET request and returns the body of a 2xx response. Non-2xx
// responses map to typed errors: 401 and 403 to INVALID_API_KEY, 429 to
// RATE_LIMIT_EXCEEDED, everything else to PROVIDER_ERROR.
func Get(ctx context.Context, client *http.Client, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "creating request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProvider, err, "reading response")
	}

	if err := StatusError(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// StatusError maps an upstream status code to a typed error, or nil for 2xx.
func StatusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := fmt.Sprintf("status %d", status)
	if detail := upstreamMessage(body); detail != "" {
		msg += " - " + detail
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.New(apperr.KindInvalidAPIKey, "%s", msg)
	case http.StatusTooManyRequests:
		return apperr.New(apperr.KindRateLimit, "%s", msg)
	default:
		return apperr.New(apperr.KindProvider, "%s", msg)
	}
}

// upstreamMessage pulls a human message out of a JSON error body, falling
// back to the start of the raw body.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Detail string `json:"detail"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error.Detail != "" {
			return payload.Error.Detail
		}
	}
	s := strings.TrimSpace(string(body))
	if strings.HasPrefix(s, "<") {
		return ""
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// DecodeJSON unmarshals body into v, mapping failures to PROVIDER_ERROR.
func DecodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return apperr.Wrap(apperr.KindProvider, err, "decoding response")
	}
	return nil
}
