package synckit

import "fmt"

// Error is a type that allows for error constants below
type Error string

// Error returns a string representation of the error
func (e Error) Error() string { return string(e) }

const (
	// ErrNotExist - object does not exist
	ErrNotExist = Error("object does not exist")
)

// ConfigError reports settings that are structurally unable to reach a
// backend: no credential source, a missing container name, and the like. It
// is raised before any network call and is fatal to the operation that
// triggered it.
type ConfigError struct {
	Reason string
}

// Error returns the reason the configuration was rejected.
func (e *ConfigError) Error() string {
	return e.Reason
}

// NewConfigError returns a ConfigError with the given reason.
func NewConfigError(reason string) *ConfigError {
	return &ConfigError{Reason: reason}
}

// RemoteError is a backend failure surfaced from a storage client, carrying
// the provider's error code when one was present. Rendering the code is pure
// presentation: the wrapped error stays reachable for errors.Is/As checks.
type RemoteError struct {
	err  error
	code string
}

// NewRemoteError wraps err with an optional provider error code. A nil err
// yields a nil RemoteError.
func NewRemoteError(err error, code string) *RemoteError {
	if err == nil {
		return nil
	}
	return &RemoteError{err: err, code: code}
}

// Error renders "<message> (Code <code>)" when a provider code is present
// and the unadorned message otherwise.
func (e *RemoteError) Error() string {
	if e.code == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s (Code %s)", e.err.Error(), e.code)
}

// Code returns the provider error code, or "" when the backend supplied none.
func (e *RemoteError) Code() string {
	return e.code
}

// Unwrap returns the underlying backend error.
func (e *RemoteError) Unwrap() error {
	return e.err
}
