package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure surfaced by the abstraction layer.
type ErrorKind string

const (
	// KindTransport means the networked call could not complete at the HTTP layer.
	KindTransport ErrorKind = "transport"
	// KindProtocol means the response body did not have the expected shape.
	KindProtocol ErrorKind = "protocol"
	// KindCommand means the command ran and reported failure.
	KindCommand ErrorKind = "command"
	// KindUnsupported means the capability has no equivalent in the active environment.
	KindUnsupported ErrorKind = "unsupported_capability"
)

// UnknownErrorMessage is used when a command reports failure without a message.
const UnknownErrorMessage = "unknown error"

var (
	ErrTransport             = errors.New("transport error")
	ErrProtocol              = errors.New("protocol error")
	ErrCommand               = errors.New("command error")
	ErrUnsupportedCapability = errors.New("capability not supported in this environment")

	// ErrUnknownCommand is returned by dispatchers when no handler is registered for a name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrSettingNotFound is returned when a settings key does not exist in the store.
	ErrSettingNotFound = errors.New("setting not found")
)

// Error is the error descriptor returned by invokers and capability facades.
// It unwraps to the sentinel matching its Kind, so callers can branch with errors.Is,
// and to the underlying cause when there is one.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int    // HTTP status for transport failures, 0 otherwise
	Cmd        string // command name, when the failure belongs to a call
	Capability string // capability name, for unsupported failures
	Err        error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindProtocol:
		return ErrProtocol
	case KindUnsupported:
		return ErrUnsupportedCapability
	default:
		return ErrCommand
	}
}

// NewTransportError builds a transport failure. status is 0 when no response was received.
func NewTransportError(cmd string, status int, cause error) *Error {
	msg := fmt.Sprintf("HTTP error: status %d", status)
	if status == 0 {
		msg = fmt.Sprintf("rpc request failed: %v", cause)
	}
	return &Error{Kind: KindTransport, Message: msg, StatusCode: status, Cmd: cmd, Err: cause}
}

// NewProtocolError builds a failure for a body that could not be encoded or parsed.
func NewProtocolError(cmd string, cause error) *Error {
	return &Error{Kind: KindProtocol, Message: fmt.Sprintf("invalid rpc payload: %v", cause), Cmd: cmd, Err: cause}
}

// NewCommandError builds a failure reported by the command itself.
// An empty message is replaced by UnknownErrorMessage.
func NewCommandError(cmd, message string) *Error {
	if message == "" {
		message = UnknownErrorMessage
	}
	return &Error{Kind: KindCommand, Message: message, Cmd: cmd}
}

// NewUnsupportedError builds the failure returned by facades with no equivalent in the active environment.
func NewUnsupportedError(capability string) *Error {
	return &Error{
		Kind:       KindUnsupported,
		Message:    fmt.Sprintf("%s is not available in this environment", capability),
		Capability: capability,
	}
}

// IsUnsupported reports whether err is an unsupported capability failure.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedCapability)
}
