package repositories

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed upstream call.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrNotFound
	ErrUnauthorized
	ErrUpstream
	ErrTransport
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNotFound:
		return "not_found"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrUpstream:
		return "upstream_error"
	case ErrTransport:
		return "transport_error"
	}
	return "unknown"
}

// ProviderError is the tagged result of a failed upstream call. The
// protocol adapter converts it to user-facing text; it never crosses
// the protocol boundary as-is.
type ProviderError struct {
	Kind     ErrorKind
	Location string
	Detail   string
}

func (e *ProviderError) Error() string {
	msg := e.Kind.String()
	if e.Location != "" {
		msg += fmt.Sprintf(" for %q", e.Location)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// AsProviderError unwraps err into a *ProviderError when possible.
func AsProviderError(err error) (*ProviderError, bool) {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}
