package client

import (
	"fmt"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents malformed response payloads.
	ErrorClassDecode ErrorClass = "decode"
)

// APIError is the single error kind surfaced by the collection API layer.
// Transport failures, timeouts, non-2xx statuses, and malformed payloads
// are all reported through it.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		if e.StatusCode > 0 {
			return fmt.Sprintf("collection API %s error (status %d): %s: %v",
				e.ErrorClass, e.StatusCode, e.Message, e.Err)
		}
		return fmt.Sprintf("collection API %s error: %s: %v",
			e.ErrorClass, e.Message, e.Err)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("collection API %s error (status %d): %s",
			e.ErrorClass, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("collection API %s error: %s", e.ErrorClass, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewDecodeError builds an APIError for a malformed response payload.
func NewDecodeError(endpoint string, err error) *APIError {
	metErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
	return &APIError{
		ErrorClass: ErrorClassDecode,
		Message:    fmt.Sprintf("decode %s response", endpoint),
		Err:        err,
	}
}

// classifyStatus categorizes a non-2xx HTTP status for observability and handling.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassNetwork
	}
}
