package httpclient

import (
	"errors"
	"fmt"
)

// FailureKind identifies the variant of a Failure.
type FailureKind int

const (
	// UnknownFailure is any unclassified error wrapping its origin detail.
	UnknownFailure FailureKind = iota
	// TimeoutFailure means no response arrived within the per-attempt budget.
	TimeoutFailure
	// ClientFailure is a 4xx outcome; never retried.
	ClientFailure
	// ServerFailure is a 5xx outcome or low-level transport error; retryable.
	ServerFailure
	// ExhaustedFailure means all retry attempts were consumed.
	ExhaustedFailure
)

// String returns the kind name for logs and error messages.
func (k FailureKind) String() string {
	switch k {
	case TimeoutFailure:
		return "timeout"
	case ClientFailure:
		return "client"
	case ServerFailure:
		return "server"
	case ExhaustedFailure:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Failure describes why a call did not produce a usable Outcome. Every
// failure carries the target host for diagnostics. Failures are immutable and
// constructed once at the point of detection.
type Failure interface {
	error
	Kind() FailureKind
	Host() string
}

// AsFailure extracts a Failure from an error chain.
func AsFailure(err error) (Failure, bool) {
	var f Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsFailureKind reports whether err is a Failure of the given kind.
func IsFailureKind(err error, kind FailureKind) bool {
	if f, ok := AsFailure(err); ok {
		return f.Kind() == kind
	}
	return false
}

// IsFailureStatus reports whether err is a Failure carrying the given HTTP
// status code.
func IsFailureStatus(err error, status int) bool {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode() == status
	}
	return false
}

// IsSuccessStatus reports whether an HTTP status code is in the 2xx range.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

type timeoutFailure struct {
	host string
}

// NewTimeoutFailure creates the failure raised when an attempt exceeds its
// time budget.
func NewTimeoutFailure(host string) Failure {
	return &timeoutFailure{host: host}
}

func (f *timeoutFailure) Error() string {
	return fmt.Sprintf("timeout while connecting to host %q", f.host)
}

func (f *timeoutFailure) Kind() FailureKind { return TimeoutFailure }
func (f *timeoutFailure) Host() string      { return f.host }

type clientFailure struct {
	host    string
	status  int
	content map[string]any
}

// NewClientFailure creates the failure raised for a 4xx outcome.
func NewClientFailure(host string, status int, content map[string]any) Failure {
	return &clientFailure{host: host, status: status, content: content}
}

func (f *clientFailure) Error() string {
	return fmt.Sprintf("client error while connecting to %q (status %d)", f.host, f.status)
}

func (f *clientFailure) Kind() FailureKind       { return ClientFailure }
func (f *clientFailure) Host() string            { return f.host }
func (f *clientFailure) StatusCode() int         { return f.status }
func (f *clientFailure) Content() map[string]any { return f.content }

type serverFailure struct {
	host   string
	status int
}

// NewServerFailure creates the failure raised for a 5xx outcome once retries
// are spent.
func NewServerFailure(host string, status int) Failure {
	return &serverFailure{host: host, status: status}
}

func (f *serverFailure) Error() string {
	return fmt.Sprintf("external service %q unavailable (status %d)", f.host, f.status)
}

func (f *serverFailure) Kind() FailureKind { return ServerFailure }
func (f *serverFailure) Host() string      { return f.host }
func (f *serverFailure) StatusCode() int   { return f.status }

type exhaustedFailure struct {
	host string
}

// NewExhaustedFailure creates the failure raised when the attempt loop
// completes without success or a terminal failure.
func NewExhaustedFailure(host string) Failure {
	return &exhaustedFailure{host: host}
}

func (f *exhaustedFailure) Error() string {
	return fmt.Sprintf("retries exhausted while connecting to host %q", f.host)
}

func (f *exhaustedFailure) Kind() FailureKind { return ExhaustedFailure }
func (f *exhaustedFailure) Host() string      { return f.host }

type unknownFailure struct {
	host  string
	cause error
}

// NewUnknownFailure creates the failure raised for an unclassified error,
// wrapping its origin detail.
func NewUnknownFailure(host string, cause error) Failure {
	return &unknownFailure{host: host, cause: cause}
}

func (f *unknownFailure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("unknown error while connecting to host %q: %v", f.host, f.cause)
	}
	return fmt.Sprintf("unknown error while connecting to host %q", f.host)
}

func (f *unknownFailure) Kind() FailureKind { return UnknownFailure }
func (f *unknownFailure) Host() string      { return f.host }
func (f *unknownFailure) Unwrap() error     { return f.cause }
