package vector

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrEndpointResolution = errors.New("endpoint resolution failed")
	ErrTransport          = errors.New("transport failure")
	ErrDecode             = errors.New("decode failure")
	ErrInvalidArgument    = errors.New("invalid argument")
)

// EndpointResolutionError is returned when the control plane lookup of an
// index host fails or returns unusable data. StatusCode is 0 when no HTTP
// response was received.
type EndpointResolutionError struct {
	Index      string
	StatusCode int
	Err        error
}

func (e *EndpointResolutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("resolve host for index %q: status %d: %v", e.Index, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("resolve host for index %q: %v", e.Index, e.Err)
}

func (e *EndpointResolutionError) Unwrap() error { return e.Err }

func (e *EndpointResolutionError) Is(target error) bool { return target == ErrEndpointResolution }

// TransportError wraps a network level failure of a single operation.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError is returned by Response.JSON when the payload is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func invalidArgument(msg string) error {
	return errors.Wrap(ErrInvalidArgument, msg)
}
