package tools

import (
	"errors"
	"fmt"
)

// UnknownToolError is returned when a call names a tool outside the catalog.
type UnknownToolError struct {
	Name       string
	Suggestion ToolName // Closest catalog name, if any is close enough
}

func (e *UnknownToolError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("Unknown tool: %s (did you mean %s?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// ArgumentReason says why an argument was rejected.
type ArgumentReason string

const (
	ReasonMissing ArgumentReason = "missing"
	ReasonInvalid ArgumentReason = "invalid"
)

// ArgumentError is returned when tool arguments fail the input schema.
type ArgumentError struct {
	Tool     ToolName
	Argument string // Empty when the failure is not tied to one argument
	Reason   ArgumentReason
	Cause    error
}

func (e *ArgumentError) Error() string {
	switch {
	case e.Reason == ReasonMissing:
		return fmt.Sprintf("%s: missing required argument %q", e.Tool, e.Argument)
	case e.Cause != nil:
		return fmt.Sprintf("%s: invalid arguments: %v", e.Tool, e.Cause)
	default:
		return fmt.Sprintf("%s: invalid argument %q", e.Tool, e.Argument)
	}
}

func (e *ArgumentError) Unwrap() error {
	return e.Cause
}

// IsUnknownTool checks if the error is an unknown tool error
func IsUnknownTool(err error) bool {
	var target *UnknownToolError
	return errors.As(err, &target)
}

// IsMissingArgument checks if the error reports an absent required argument
func IsMissingArgument(err error) bool {
	var target *ArgumentError
	return errors.As(err, &target) && target.Reason == ReasonMissing
}

// IsInvalidArgument checks if the error reports a malformed argument
func IsInvalidArgument(err error) bool {
	var target *ArgumentError
	return errors.As(err, &target) && target.Reason == ReasonInvalid
}
