// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"errors"
	"fmt"
)

// User-facing failure texts.
const (
	BusyMessage    = "The AI gateway is currently busy. Please try again in a moment."
	TimeoutMessage = "The ICT Bangladesh AI gateway timed out (90s+). Please try again shortly."
)

var (
	// ErrCanceled is returned when the caller cancels an in-flight request.
	ErrCanceled = errors.New("request canceled")

	// ErrEmptyInput is returned for a question that is blank after trimming.
	ErrEmptyInput = errors.New("empty chat input")
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindBusy covers transport errors, non-2xx responses and bad bodies.
	KindBusy Kind = iota
	// KindTimeout means the request deadline passed.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindBusy:
		return "busy"
	case KindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// GatewayError is a failed chat request. Error returns the text shown to the
// user; Detail and Unwrap expose the cause.
type GatewayError struct {
	Kind   Kind
	Status int   // HTTP status, 0 when no response was received
	Err    error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Kind == KindTimeout {
		return TimeoutMessage
	}
	return BusyMessage
}

// Detail describes the cause for logs.
func (e *GatewayError) Detail() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s (HTTP %d)", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

// Unwrap returns the underlying cause.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is matches another *GatewayError of the same Kind, so
// errors.Is(err, ErrTimeout) works regardless of cause.
func (e *GatewayError) Is(target error) bool {
	t, ok := target.(*GatewayError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Comparison targets for errors.Is.
var (
	ErrBusy    = &GatewayError{Kind: KindBusy}
	ErrTimeout = &GatewayError{Kind: KindTimeout}
)
