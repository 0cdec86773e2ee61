package errors

import "errors"

// GetCode returns the code of the outermost *Error in the chain. A nil error is OK and
// any other error is Internal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func hasCode(err error, code Code) bool {
	return GetCode(err) == code
}

func IsInvalidArgument(err error) bool { return hasCode(err, CodeInvalidArgument) }

func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

func IsAlreadyExists(err error) bool { return hasCode(err, CodeAlreadyExists) }

func IsFailedPrecondition(err error) bool { return hasCode(err, CodeFailedPrecondition) }

// IsAborted reports a lost version race. The caller may reload and retry.
func IsAborted(err error) bool { return hasCode(err, CodeAborted) }

func IsInternal(err error) bool { return hasCode(err, CodeInternal) }

func IsUnavailable(err error) bool { return hasCode(err, CodeUnavailable) }

func IsInsufficientPoints(err error) bool { return hasCode(err, CodeInsufficientPoints) }

func IsRankCapReached(err error) bool { return hasCode(err, CodeRankCapReached) }

func IsNothingAllocated(err error) bool { return hasCode(err, CodeNothingAllocated) }

func IsInsufficientMana(err error) bool { return hasCode(err, CodeInsufficientMana) }

func IsOnCooldown(err error) bool { return hasCode(err, CodeOnCooldown) }

func IsNotLearned(err error) bool { return hasCode(err, CodeNotLearned) }

func IsActivationFailed(err error) bool { return hasCode(err, CodeActivationFailed) }
