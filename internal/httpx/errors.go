package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is a non-2xx response from the platform API, carrying the
// human-readable message the backend supplied (if any).
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsUnauthorized reports whether the error is an authorization failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Kind string // "timeout", "canceled", "connection_refused", "dns", "network", "other"
	Err  error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case "timeout":
		return "request timed out"
	case "canceled":
		return "request canceled"
	case "connection_refused":
		return "could not connect to the server"
	case "dns":
		return "could not resolve the server address"
	default:
		return "network error: " + e.Err.Error()
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// errorBody covers the error shapes the backend emits: a bare msg/message
// field, or a nested error envelope.
type errorBody struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeAPIError(statusCode int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Msg != "":
			apiErr.Message = body.Msg
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error.Message != "":
			apiErr.Code = body.Error.Code
			apiErr.Message = body.Error.Message
		}
	}
	return apiErr
}

// classifyNetworkError categorizes a failed HTTP round trip.
func classifyNetworkError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		if netErr.Op == "dial" {
			return "connection_refused"
		}
		return "network"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	var urlErr interface{ Timeout() bool }
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "timeout"
	}
	return "other"
}
