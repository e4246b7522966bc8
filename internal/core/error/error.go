package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for propagation policy decisions.
type Kind int

const (
	// KindApplication marks an envelope-level failure (success=false)
	// delivered over a transport-level success.
	KindApplication Kind = iota
	// KindAuthExpired marks a 401; the session is no longer valid.
	KindAuthExpired
	// KindClient marks any other 4xx carrying a server message.
	KindClient
	// KindServer marks 5xx responses.
	KindServer
	// KindNetwork marks requests that got no response at all, including
	// timeouts and cancellations.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindAuthExpired:
		return "auth_expired"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

const (
	// SessionExpiredMessage is shown when the auth token is rejected.
	SessionExpiredMessage = "your session has expired, please log in again"
	// ServerErrorMessage is the generic 5xx fallback.
	ServerErrorMessage = "a server error occurred, please try again later"
	// RequestFailedMessage is the 4xx fallback when the server sent no message.
	RequestFailedMessage = "the request could not be processed"
	// NetworkErrorMessage is shown when no response was received.
	NetworkErrorMessage = "a network error occurred, please check your connection"
	// RedisNotFoundMessage describes a missing key in the redis backend.
	RedisNotFoundMessage = "value not found"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
)

// Error wraps an underlying error with a kind, an HTTP status and a safe
// user-facing message. Payload carries the raw response body when one was
// received, so callers can recover structured details.
type Error struct {
	Err     error
	Kind    Kind
	Status  int
	Message string
	Payload []byte
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, kind Kind, status int, message string) *Error {
	return &Error{
		Err:     err,
		Kind:    kind,
		Status:  status,
		Message: message,
	}
}

// Application builds the error for an envelope that reported success=false.
func Application(message string, payload []byte) *Error {
	if message == "" {
		message = RequestFailedMessage
	}
	return &Error{Kind: KindApplication, Status: http.StatusOK, Message: message, Payload: payload}
}

// Network builds the error for a request that received no response.
func Network(err error) *Error {
	return &Error{Err: err, Kind: KindNetwork, Message: NetworkErrorMessage}
}

// Classify maps an HTTP failure status and the server-provided message to
// an error kind and the message to surface. Pure; the notification policy
// lives with the caller.
func Classify(status int, serverMessage string) (Kind, string) {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthExpired, SessionExpiredMessage
	case status >= 500:
		return KindServer, ServerErrorMessage
	default:
		if serverMessage != "" {
			return KindClient, serverMessage
		}
		return KindClient, RequestFailedMessage
	}
}

// Is reports whether the target matches the underlying error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to Error or the wrapped error in a chain.
func (e *Error) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**Error); ok {
		*t = e
		return true
	}
	return false
}
