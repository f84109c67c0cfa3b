package core

import "errors"

// Kind classifies an Error so transports can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnprocessable
	KindNotFound
	KindAuthRequired
	KindAuthForbidden
	KindUpstreamConfig
	KindUpstreamCall
	KindDecode
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnprocessable:
		return "unprocessable"
	case KindNotFound:
		return "not_found"
	case KindAuthRequired:
		return "auth_required"
	case KindAuthForbidden:
		return "auth_forbidden"
	case KindUpstreamConfig:
		return "upstream_config"
	case KindUpstreamCall:
		return "upstream_call"
	case KindDecode:
		return "decode"
	case KindFormat:
		return "format"
	default:
		return "internal"
	}
}

// Error is the error type shared by stores, the photo gateway and handlers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func ErrValidation(msg string) error { return newError(KindValidation, msg, nil) }
func ErrUnprocessable(msg string) error { return newError(KindUnprocessable, msg, nil) }
func ErrNotFound(msg string) error { return newError(KindNotFound, msg, nil) }
func ErrAuthRequired(msg string) error { return newError(KindAuthRequired, msg, nil) }
func ErrAuthForbidden(msg string) error { return newError(KindAuthForbidden, msg, nil) }
func ErrUpstreamConfig(msg string) error { return newError(KindUpstreamConfig, msg, nil) }

func ErrUpstreamCall(msg string, cause error) error {
	return newError(KindUpstreamCall, msg, cause)
}

func ErrDecode(msg string, cause error) error {
	return newError(KindDecode, msg, cause)
}

func ErrFormat(msg string, cause error) error {
	return newError(KindFormat, msg, cause)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
