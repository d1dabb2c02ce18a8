// Package vessel implements container ships: an ordered collection of cargo
// containers guarded by a container-count limit and an aggregate weight
// limit.
//
// Both limits are checked on every mutation. The aggregate weight is summed
// on demand from the containers themselves, so loads changed after a
// container came aboard are always taken into account.
//
// A Vessel is not safe for concurrent use. Add is a check-then-append and
// callers sharing a vessel between goroutines must serialize all mutating
// calls.
package vessel

import (
	"fmt"
	"math"
	"strings"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/model"
)

// kgPerTon converts the ton-based weight limit to kilograms.
const kgPerTon = 1000

// Spec holds the fixed characteristics of a vessel.
type Spec struct {
	Name string `json:"name" yaml:"name"`

	// MaxSpeed in knots is informational.
	MaxSpeed float64 `json:"maxSpeed" yaml:"maxSpeed"`

	// MaxContainerCount is the number of containers the vessel can carry.
	MaxContainerCount int `json:"maxContainerCount" yaml:"maxContainerCount"`

	// MaxTotalWeight is the aggregate container weight limit in tons.
	MaxTotalWeight float64 `json:"maxTotalWeight" yaml:"maxTotalWeight"`
}

// Validate checks the vessel's name and limits.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: vessel name must not be empty", model.ErrInvalidArgument)
	}
	if s.MaxContainerCount <= 0 {
		return fmt.Errorf("%w: vessel %s: max container count must be positive, got %d",
			model.ErrInvalidArgument, s.Name, s.MaxContainerCount)
	}
	if math.IsNaN(s.MaxTotalWeight) || s.MaxTotalWeight <= 0 {
		return fmt.Errorf("%w: vessel %s: max total weight must be positive, got %g",
			model.ErrInvalidArgument, s.Name, s.MaxTotalWeight)
	}
	if math.IsNaN(s.MaxSpeed) || s.MaxSpeed < 0 {
		return fmt.Errorf("%w: vessel %s: max speed must be non-negative, got %g",
			model.ErrInvalidArgument, s.Name, s.MaxSpeed)
	}
	return nil
}

// Vessel is a container ship. The order of its containers is the order in
// which they came aboard.
type Vessel struct {
	spec       Spec
	containers []*cargo.Container
}

// New creates an empty vessel after validating spec.
func New(spec Spec) (*Vessel, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Vessel{spec: spec}, nil
}

// Name returns the vessel name as registered.
func (v *Vessel) Name() string { return v.spec.Name }

// Spec returns the fixed characteristics the vessel was created with.
func (v *Vessel) Spec() Spec { return v.spec }

// MaxSpeed returns the maximum speed in knots.
func (v *Vessel) MaxSpeed() float64 { return v.spec.MaxSpeed }

// MaxContainerCount returns the number of containers the vessel can carry.
func (v *Vessel) MaxContainerCount() int { return v.spec.MaxContainerCount }

// MaxTotalWeight returns the aggregate weight limit in tons.
func (v *Vessel) MaxTotalWeight() float64 { return v.spec.MaxTotalWeight }

// WeightLimitKg returns the aggregate weight limit in kilograms.
func (v *Vessel) WeightLimitKg() float64 {
	return v.spec.MaxTotalWeight * kgPerTon
}

// Len returns the number of containers aboard.
func (v *Vessel) Len() int {
	return len(v.containers)
}

// Containers returns the containers aboard in boarding order. The slice is
// a copy; the containers are shared.
func (v *Vessel) Containers() []*cargo.Container {
	out := make([]*cargo.Container, len(v.containers))
	copy(out, v.containers)
	return out
}

// TotalWeight sums tare plus current load over every container aboard.
// It is recomputed on each call.
func (v *Vessel) TotalWeight() float64 {
	var total float64
	for _, c := range v.containers {
		total += c.GrossWeight()
	}
	return total
}

// CanAccept reports whether one more container weighing grossKg would fit.
// It runs the same checks as Add, in the same order, without mutating.
func (v *Vessel) CanAccept(grossKg float64) error {
	countErr := v.checkCount()
	weightErr := v.checkWeight(grossKg)
	if countErr != nil {
		return countErr
	}
	return weightErr
}

func (v *Vessel) checkCount() error {
	if len(v.containers) >= v.spec.MaxContainerCount {
		return &model.CapacityError{
			Vessel: v.spec.Name,
			Count:  len(v.containers),
			Max:    v.spec.MaxContainerCount,
		}
	}
	return nil
}

func (v *Vessel) checkWeight(grossKg float64) error {
	projected := v.TotalWeight() + grossKg
	if limit := v.WeightLimitKg(); projected > limit {
		return &model.WeightLimitError{
			Vessel:    v.spec.Name,
			Projected: projected,
			LimitKg:   limit,
		}
	}
	return nil
}

// Add puts c aboard. It returns a *model.CapacityError when the vessel is
// full and a *model.WeightLimitError when c would push the aggregate weight
// over the limit; when both apply the count violation is reported. On error
// the vessel is unchanged. c itself is never modified.
func (v *Vessel) Add(c *cargo.Container) error {
	if c == nil {
		return fmt.Errorf("%w: nil container", model.ErrInvalidArgument)
	}
	if _, ok := v.indexOf(c.Serial()); ok {
		return fmt.Errorf("vessel %s already carries %s: %w", v.spec.Name, c.Serial(), model.ErrDuplicateSerial)
	}
	if err := v.CanAccept(c.GrossWeight()); err != nil {
		return err
	}
	v.containers = append(v.containers, c)
	return nil
}

// Get looks up a container aboard by serial.
func (v *Vessel) Get(serial string) (*cargo.Container, bool) {
	i, ok := v.indexOf(serial)
	if !ok {
		return nil, false
	}
	return v.containers[i], true
}

// Remove detaches and returns the container with the given serial. It
// returns false, leaving the vessel unchanged, when no such container is
// aboard.
func (v *Vessel) Remove(serial string) (*cargo.Container, bool) {
	i, ok := v.indexOf(serial)
	if !ok {
		return nil, false
	}
	c := v.containers[i]
	v.removeAt(i)
	return c, true
}

// Unload empties the container with the given serial in place. It returns
// false when no such container is aboard.
func (v *Vessel) Unload(serial string) bool {
	c, ok := v.Get(serial)
	if !ok {
		return false
	}
	c.Unload()
	return true
}

// Replace swaps the container oldSerial for newContainer.
//
// found is false, and nothing changes, when oldSerial is not aboard. When
// newContainer cannot come aboard the old container is put back where it
// was and the add error is returned wrapped; newContainer is not aboard and
// its fate is left to the caller. On success the detached old container is
// returned and is likewise the caller's responsibility.
func (v *Vessel) Replace(oldSerial string, newContainer *cargo.Container) (old *cargo.Container, found bool, err error) {
	i, ok := v.indexOf(oldSerial)
	if !ok {
		return nil, false, nil
	}
	if newContainer != nil && strings.EqualFold(newContainer.Serial(), oldSerial) {
		return nil, true, fmt.Errorf("%w: cannot replace %s with itself", model.ErrInvalidArgument, oldSerial)
	}
	old = v.containers[i]
	v.removeAt(i)

	if err := v.Add(newContainer); err != nil {
		v.insertAt(i, old)
		return nil, true, fmt.Errorf("container replacement failed: %w", err)
	}
	return old, true, nil
}

// indexOf finds a serial aboard. Serials are compared case-insensitively.
func (v *Vessel) indexOf(serial string) (int, bool) {
	for i, c := range v.containers {
		if strings.EqualFold(c.Serial(), serial) {
			return i, true
		}
	}
	return -1, false
}

func (v *Vessel) removeAt(i int) {
	copy(v.containers[i:], v.containers[i+1:])
	v.containers[len(v.containers)-1] = nil
	v.containers = v.containers[:len(v.containers)-1]
}

func (v *Vessel) insertAt(i int, c *cargo.Container) {
	v.containers = append(v.containers, nil)
	copy(v.containers[i+1:], v.containers[i:])
	v.containers[i] = c
}
