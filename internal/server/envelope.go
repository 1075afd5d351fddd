// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/logging"
)

// ProtocolVersion tags every envelope.
const ProtocolVersion = "mcp.v1"

// Envelope statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Error codes produced by the HTTP layer itself.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
)

// Envelope wraps every action response.
type Envelope struct {
	Version   string           `json:"version"`
	Service   string           `json:"service"`
	Action    string           `json:"action,omitempty"`
	RequestID string           `json:"requestId,omitempty"`
	Status    string           `json:"status"`
	Data      any              `json:"data"`
	Error     *ErrorBody       `json:"error"`
	Metrics   *EnvelopeMetrics `json:"metrics,omitempty"`
}

// ErrorBody is the error member of an Envelope.
type ErrorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// EnvelopeMetrics reports where a request spent its time.
type EnvelopeMetrics struct {
	ElapsedMs  int64 `json:"elapsedMs"`
	ProviderMs int64 `json:"providerMs"`
	CacheMs    int64 `json:"cacheMs"`
}

func newEnvelope(action, requestID string) Envelope {
	return Envelope{
		Version:   ProtocolVersion,
		Service:   logging.ServiceName,
		Action:    action,
		RequestID: requestID,
	}
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidRequest:
		return http.StatusBadRequest
	case apperr.KindNotImplemented:
		return http.StatusNotImplemented
	case apperr.KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes an error envelope and stops the handler chain.
func abortWithError(c *gin.Context, status int, action, code, message string) {
	env := newEnvelope(action, c.GetString(requestIDKey))
	env.Status = StatusError
	env.Error = &ErrorBody{Code: code, Message: message}
	c.AbortWithStatusJSON(status, env)
}
