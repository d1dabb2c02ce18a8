package model

import (
	"fmt"
	"strings"
)

// Kind identifies the physical kind of a cargo container. The kind
// determines which loading policy applies and whether the container can
// raise hazard notifications.
type Kind string

const (
	// KindLiquid is a tank container for liquids. Hazardous liquids may
	// only be filled to half capacity; others to 90%.
	KindLiquid Kind = "liquid"

	// KindGas is a pressurised gas container. It may be filled to capacity
	// and always retains a residue after unloading.
	KindGas Kind = "gas"

	// KindRefrigerated is a reefer container carrying a temperature
	// sensitive product.
	KindRefrigerated Kind = "refrigerated"
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks whether the Kind value is one of the predefined kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindLiquid, KindGas, KindRefrigerated:
		return true
	default:
		return false
	}
}

// Tag returns the single-letter tag embedded in serial numbers
// (e.g. "KON-L-1"). Refrigerated containers use "C" for "cooled".
func (k Kind) Tag() string {
	switch k {
	case KindLiquid:
		return "L"
	case KindGas:
		return "G"
	case KindRefrigerated:
		return "C"
	default:
		return "?"
	}
}

// ParseKind converts a string to a Kind. Besides the full names it accepts
// the serial tags (L, G, C) and the short alias "reefer". Matching is case
// insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "liquid", "l":
		return KindLiquid, nil
	case "gas", "g":
		return KindGas, nil
	case "refrigerated", "reefer", "c":
		return KindRefrigerated, nil
	default:
		return "", fmt.Errorf("invalid container kind: %q (valid: liquid, gas, refrigerated)", s)
	}
}

// ExitCode defines the process exit codes of the cargofleet CLI.
// Scripts driving the CLI can branch on these values.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidInput indicates a malformed argument, flag or manifest.
	ExitInvalidInput ExitCode = 2

	// ExitNotFound indicates that a vessel or container does not exist.
	ExitNotFound ExitCode = 3

	// ExitOverfill indicates a container refused a load.
	ExitOverfill ExitCode = 4

	// ExitVesselLimit indicates a vessel refused a container because of
	// its count or weight limit.
	ExitVesselLimit ExitCode = 5

	// ExitTransferFailed indicates a transfer between vessels did not
	// happen.
	ExitTransferFailed ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
