package model

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below report themselves as one of these
// through Is, so callers can branch with errors.Is without caring about
// the concrete type.
var (
	// ErrOverfill is matched by every OverfillError.
	ErrOverfill = errors.New("overfill")

	// ErrCapacity is matched by every CapacityError.
	ErrCapacity = errors.New("vessel container count limit reached")

	// ErrWeightLimit is matched by every WeightLimitError.
	ErrWeightLimit = errors.New("vessel weight limit exceeded")

	// ErrNotFound reports that a vessel or container name did not resolve.
	// It is an expected outcome, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSerial reports an attempt to put a container aboard a
	// vessel that already carries a container with the same serial.
	ErrDuplicateSerial = errors.New("duplicate container serial")

	// ErrDuplicateVessel reports a vessel name that is already registered.
	ErrDuplicateVessel = errors.New("duplicate vessel name")

	// ErrInvalidArgument reports a value outside its permitted domain
	// (negative weight, zero capacity and the like).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransferFailed reports a transfer that left both vessels as they
	// were.
	ErrTransferFailed = errors.New("transfer failed")
)

// OverfillReason distinguishes the policy that rejected a load.
type OverfillReason string

const (
	// ReasonCapacity means the requested weight exceeded the kind's limit.
	ReasonCapacity OverfillReason = "capacity"

	// ReasonTemperature means a refrigerated container is colder than its
	// product requires.
	ReasonTemperature OverfillReason = "temperature"
)

// OverfillError is returned by a container's Load when the requested weight
// violates its loading policy. The container's load is left unchanged.
type OverfillError struct {
	Serial string
	Kind   Kind
	Reason OverfillReason

	// Weight is the requested load in kilograms.
	Weight float64

	// Limit is the effective limit in kilograms for capacity violations.
	Limit float64

	// ContainerTemperature and RequiredTemperature are set for
	// temperature violations only.
	ContainerTemperature float64
	RequiredTemperature  float64

	// Product is the refrigerated product type, if any.
	Product string
}

func (e *OverfillError) Error() string {
	if e.Reason == ReasonTemperature {
		return fmt.Sprintf("temperature %g°C is too low for product %s (requires %g°C) in container %s",
			e.ContainerTemperature, e.Product, e.RequiredTemperature, e.Serial)
	}
	return fmt.Sprintf("cannot load %g kg into container %s: limit is %g kg", e.Weight, e.Serial, e.Limit)
}

// Is reports ErrOverfill as a match.
func (e *OverfillError) Is(target error) bool {
	return target == ErrOverfill
}

// CapacityError is returned when a vessel already carries its maximum
// number of containers.
type CapacityError struct {
	Vessel string
	Count  int
	Max    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("vessel %s carries %d of %d containers: the container count on the ship has reached its limit",
		e.Vessel, e.Count, e.Max)
}

// Is reports ErrCapacity as a match.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

// WeightLimitError is returned when adding a container would push a
// vessel's aggregate weight over its limit.
type WeightLimitError struct {
	Vessel string

	// Projected is the aggregate weight in kilograms the vessel would
	// carry after the add.
	Projected float64

	// LimitKg is the vessel's limit converted to kilograms.
	LimitKg float64
}

func (e *WeightLimitError) Error() string {
	return fmt.Sprintf("vessel %s would carry %g kg, exceeding its limit of %g kg",
		e.Vessel, e.Projected, e.LimitKg)
}

// Is reports ErrWeightLimit as a match.
func (e *WeightLimitError) Is(target error) bool {
	return target == ErrWeightLimit
}

// ExitCodeFor picks the CLI exit code that best describes err.
func ExitCodeFor(err error) ExitCode {
	var cliErr *CLIError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cliErr):
		return cliErr.Code
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrOverfill):
		return ExitOverfill
	case errors.Is(err, ErrCapacity), errors.Is(err, ErrWeightLimit):
		return ExitVesselLimit
	case errors.Is(err, ErrTransferFailed):
		return ExitTransferFailed
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrDuplicateSerial), errors.Is(err, ErrDuplicateVessel):
		return ExitInvalidInput
	default:
		return ExitGeneralError
	}
}
