package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// NetworkError wraps a timeout, DNS or connection failure. Retried by policy.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the source returned HTTP 429. Retried with a
// longer backoff; RetryAfter, when the server provided one, overrides the
// computed delay.
type RateLimitError struct {
	Source     string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: rate limited: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s: rate limited", e.Source)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// ParseError indicates the source's response did not match the expected
// shape (missing selector, schema mismatch, unusable payload). Never retried
// on the same adapter; control passes to the next adapter in the chain.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the error represents a transient failure worth
// retrying on the same adapter. Context cancellation and parse errors are
// terminal; everything else (network, rate limit, unclassified) is transient.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}

	return true
}
