package errors

// Code classifies an error. Generic codes share their gRPC names, progression codes
// name the rule a rejected operation broke.
type Code string

// Generic codes
const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"
)

// Progression codes. Each rejects a single operation and leaves state unchanged.
const (
	CodeInsufficientPoints Code = "INSUFFICIENT_POINTS"
	CodeRankCapReached     Code = "RANK_CAP_REACHED"
	CodeNothingAllocated   Code = "NOTHING_ALLOCATED"
	CodeInsufficientMana   Code = "INSUFFICIENT_MANA"
	CodeOnCooldown         Code = "ON_COOLDOWN"
	CodeNotLearned         Code = "NOT_LEARNED"
	CodeActivationFailed   Code = "ACTIVATION_FAILED"
	// CodeUnknownTarget tags modifier targets the compiler skips. It is logged, never returned.
	CodeUnknownTarget Code = "UNKNOWN_TARGET"
)

func (c Code) String() string {
	return string(c)
}
