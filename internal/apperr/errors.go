// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apperr defines the tagged error type shared by providers, the
// orchestrator and the HTTP surface. Callers switch on Kind, never on the
// message text.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the error code reported to clients.
type Kind string

const (
	KindInvalidRequest Kind = "INVALID_REQUEST"
	KindProvider       Kind = "PROVIDER_ERROR"
	KindInvalidAPIKey  Kind = "INVALID_API_KEY"
	KindRateLimit      Kind = "RATE_LIMIT_EXCEEDED"
	KindNotImplemented Kind = "NOT_IMPLEMENTED"
	KindInternal       Kind = "INTERNAL_ERROR"
)

// Error carries a Kind, a human message and, when known, the provider that
// produced it.
type Error struct {
	Kind     Kind
	Message  string
	Provider string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of the given kind that wraps err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// ForProvider returns a copy of e attributed to provider.
func (e *Error) ForProvider(provider string) *Error {
	c := *e
	c.Provider = provider
	return &c
}

// KindOf returns the Kind of the first *Error in err's chain. Context
// cancellation and deadlines count as provider failures; anything else
// unknown is internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindProvider
	}
	return KindInternal
}

// Message returns the message of the first *Error in err's chain, or
// err.Error() when there is none.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// IsAuthFailure reports whether err means a credential was rejected.
func IsAuthFailure(err error) bool {
	return KindOf(err) == KindInvalidAPIKey
}

// Retryable reports whether repeating the same call could succeed.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimit, KindProvider:
		return true
	default:
		return false
	}
}
