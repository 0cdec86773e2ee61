package errors

import (
	"fmt"
	"slices"
	"strings"
)

// fieldProblem is one rejected field with the reason
type fieldProblem struct {
	field  string
	reason string
}

// ValidationBuilder collects field problems of a config or a request and turns them into
// a single InvalidArgument error. Problems keep the order they were found in.
type ValidationBuilder struct {
	problems []fieldProblem
}

func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{}
}

// Field records a problem with field
func (vb *ValidationBuilder) Field(field, reason string) *ValidationBuilder {
	vb.problems = append(vb.problems, fieldProblem{field: field, reason: reason})
	return vb
}

func (vb *ValidationBuilder) Fieldf(field, format string, args ...any) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Field(field, "is invalid: "+reason)
}

// Build returns nil when nothing was recorded. Otherwise the error lists every problem
// and carries them per field under the "fields" meta key.
func (vb *ValidationBuilder) Build() error {
	if len(vb.problems) == 0 {
		return nil
	}

	parts := make([]string, len(vb.problems))
	fields := make(map[string][]string)
	for i, p := range vb.problems {
		parts[i] = p.field + ": " + p.reason
		fields[p.field] = append(fields[p.field], p.reason)
	}
	return InvalidArgument("validation failed: " + strings.Join(parts, "; ")).
		WithMeta("fields", fields)
}

// ValidateRequired rejects a blank string
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateMaxLength rejects a string longer than maxLen bytes
func ValidateMaxLength(field, value string, maxLen int, vb *ValidationBuilder) {
	if len(value) > maxLen {
		vb.Fieldf(field, "must be no more than %d characters", maxLen)
	}
}

// ValidateRange rejects a value outside [lo, hi]
func ValidateRange(field string, value, lo, hi int, vb *ValidationBuilder) {
	if value < lo || value > hi {
		vb.Fieldf(field, "must be between %d and %d", lo, hi)
	}
}

// ValidateEnum rejects a value not in allowed
func ValidateEnum(field, value string, allowed []string, vb *ValidationBuilder) {
	if !slices.Contains(allowed, value) {
		vb.Fieldf(field, "must be one of: %s", strings.Join(allowed, ", "))
	}
}
