package domain

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned when calls to the video platform are suspended.
var ErrCircuitOpen = errors.New("video platform circuit breaker is open")

// UpstreamError reports a non-success status from the video platform.
type UpstreamError struct {
	Endpoint string
	Status   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Status)
}

// TransportError reports a network or decoding failure talking to the video platform.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
