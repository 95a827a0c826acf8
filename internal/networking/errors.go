package networking

import (
	"errors"
	"fmt"
)

// Kind identifies which variant of the network failure taxonomy an error is
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindStatus
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// TransportError means the exchange failed before a response was received
// (connectivity, DNS, TLS, timeout). Err is kept for logging only.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) ErrorCode() string {
	return "NET"
}

// StatusError means the server answered with a non-success status code
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func (e *StatusError) ErrorCode() string {
	return fmt.Sprintf("ST%d", e.StatusCode)
}

func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// ParseError means the response had a success status but its body could not
// be interpreted
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "failed to parse response"
	}
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) ErrorCode() string {
	return "PARSE"
}

// Classify reports the taxonomy variant found in err's chain
func Classify(err error) Kind {
	var (
		transportErr *TransportError
		statusErr    *StatusError
		parseErr     *ParseError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

// StatusCode extracts the status code of a StatusError in err's chain
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// ErrorCode returns the short code shown to users next to error messages
func ErrorCode(err error) string {
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return "UNKNOWN"
}
