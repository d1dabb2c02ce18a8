// Package model defines the shared domain vocabulary for the cargofleet CLI.
//
// This package contains pure value types with no external dependencies:
// the container Kind enumeration, the error taxonomy raised by loading
// policies and vessel invariants (OverfillError, CapacityError,
// WeightLimitError and their sentinels), and the exit codes (ExitCode)
// plus CLIError used to translate failures into process exit statuses.
package model
