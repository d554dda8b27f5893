package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the retry and logging layers can treat
// them uniformly.
type ErrorKind int

const (
	// ErrConnectivity covers network failures, timeouts and non-2xx responses.
	ErrConnectivity ErrorKind = iota
	// ErrCredential covers invalid API keys; never retried.
	ErrCredential
	// ErrMalformed covers unparseable responses; retrying cannot fix these.
	ErrMalformed
	// ErrNotFound is the soft extraction failure.
	ErrNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConnectivity:
		return "connectivity"
	case ErrCredential:
		return "credential"
	case ErrMalformed:
		return "malformed"
	case ErrNotFound:
		return "not-found"
	}
	return "unknown"
}

// ClientError is the shared error type for all outbound-call failures.
type ClientError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// errorKind extracts the ErrorKind from err, defaulting to connectivity for
// errors that did not originate in this module.
func errorKind(err error) ErrorKind {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ErrConnectivity
}

// isRetryable reports whether the retry executor may attempt err again.
// Credential failures cannot change on retry and parse failures will not.
func isRetryable(err error) bool {
	switch errorKind(err) {
	case ErrCredential, ErrMalformed:
		return false
	}
	return true
}
