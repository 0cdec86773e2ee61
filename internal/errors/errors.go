package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Error is a coded error. Meta carries identifiers such as the talent or ability a rule
// rejected, and survives wrapping.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && other.Code == e.Code
}

// WithMeta sets a metadata entry and returns the error for chaining
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap annotates err and keeps its code. Errors from outside this package become Internal.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return wrap(err, GetCode(err), message)
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode annotates err and replaces its code, typically to classify a driver error
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return wrap(err, code, message)
}

// WrapWithCodef is WrapWithCode with a formatted message
func WrapWithCodef(err error, code Code, format string, args ...any) *Error {
	return WrapWithCode(err, code, fmt.Sprintf(format, args...))
}

func wrap(err error, code Code, message string) *Error {
	out := &Error{Code: code, Message: message, Cause: err}
	var inner *Error
	if errors.As(err, &inner) {
		out.Meta = maps.Clone(inner.Meta)
	}
	return out
}

// Request and storage errors

// InvalidArgument rejects malformed input before any state is touched
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args...)
}

// NotFound reports a missing character, talent, group or item
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func NotFoundf(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return newf(CodeAlreadyExists, format, args...)
}

func FailedPreconditionf(format string, args ...any) *Error {
	return newf(CodeFailedPrecondition, format, args...)
}

// Aborted reports a version conflict on save
func Aborted(message string) *Error {
	return New(CodeAborted, message)
}

func Abortedf(format string, args ...any) *Error {
	return newf(CodeAborted, format, args...)
}

func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Unavailable reports a store or catalog that cannot be reached
func Unavailable(message string) *Error {
	return New(CodeUnavailable, message)
}

func Unavailablef(format string, args ...any) *Error {
	return newf(CodeUnavailable, format, args...)
}

// Talent ledger rejections

func InsufficientPointsf(format string, args ...any) *Error {
	return newf(CodeInsufficientPoints, format, args...)
}

func RankCapReachedf(format string, args ...any) *Error {
	return newf(CodeRankCapReached, format, args...)
}

func NothingAllocatedf(format string, args ...any) *Error {
	return newf(CodeNothingAllocated, format, args...)
}

// Ability gate rejections

func InsufficientManaf(format string, args ...any) *Error {
	return newf(CodeInsufficientMana, format, args...)
}

func OnCooldownf(format string, args ...any) *Error {
	return newf(CodeOnCooldown, format, args...)
}

func NotLearnedf(format string, args ...any) *Error {
	return newf(CodeNotLearned, format, args...)
}

// ActivationFailedf reports that the effect system refused an activation. Nothing was spent.
func ActivationFailedf(format string, args ...any) *Error {
	return newf(CodeActivationFailed, format, args...)
}
