// Package faults defines the stable error taxonomy shared by every
// component of the watchdog: a small closed set of error kinds,
// carried as a typed error rather than as distinct Go error values
// per site, so that callers can branch on Kind with errors.As.
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a fault.
type Kind string

const (
	ConfigFormat      Kind = "config-format"
	MissingSection    Kind = "missing-section"
	MissingKey        Kind = "missing-key"
	TypeMismatch      Kind = "type-mismatch"
	IllegalState      Kind = "illegal-state"
	NoRunningProcess  Kind = "no-running-process"
	MappingMissing    Kind = "mapping-missing"
	UnknownResponse   Kind = "unknown-response"
	StringEncoding    Kind = "string-encoding"
	PeerChannelClosed Kind = "peer-channel-closed"
	Io                Kind = "io"
)

// Error is a fault of a known Kind, optionally wrapping an
// underlying error (populated for Kind == Io).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ConfigFormat:
		return fmt.Sprintf("config format error: %s", e.Message)
	case IllegalState:
		return fmt.Sprintf("illegal state [%s]", e.Message)
	case MappingMissing:
		return fmt.Sprintf("mapping missing for [%s] in Sup", e.Message)
	case MissingKey:
		return fmt.Sprintf("the key [%s] is missing in the config", e.Message)
	case MissingSection:
		return fmt.Sprintf("the section [%s] is missing in the config", e.Message)
	case NoRunningProcess:
		return "no running process"
	case PeerChannelClosed:
		return "peer channel is closed"
	case StringEncoding:
		return "invalid string encoding"
	case TypeMismatch:
		return fmt.Sprintf("type error (expected: %s)", e.Message)
	case UnknownResponse:
		return fmt.Sprintf("unknown response [%s]", e.Message)
	case Io:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "io error"
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new *Error of the given kind carrying message as
// its contextual detail (the section name, key name, service id,
// etc., depending on kind).
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new *Error of the given kind wrapping err.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Is reports whether err is, or wraps, a fault of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
