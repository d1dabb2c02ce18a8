package manifest

import (
	"fmt"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/fleet"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

// Result reports what Apply added to the fleet.
type Result struct {
	Vessels    []string `json:"vessels"`
	Containers []string `json:"containers"`
	Aboard     int      `json:"aboard"`
}

// Apply validates m and builds its vessels and containers in f.
//
// Containers are created in manifest order, so their serials follow that
// order. A container with a vessel is put aboard through LoadOnto; one
// without keeps its load in the free pool. Validation problems are returned
// as ValidationErrors before f is touched. A refusal during the build (which
// validation is meant to rule out) stops it and is returned with the
// offending entry; what was built so far stays in f.
func Apply(f *fleet.Fleet, m *Manifest) (*Result, error) {
	if errs := Validate(m); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	for i, spec := range m.Vessels {
		if _, exists := f.Vessel(spec.Name); exists {
			return nil, ValidationErrors{{
				Field:   fmt.Sprintf("vessels[%d].name", i),
				Message: fmt.Sprintf("vessel %q already exists in the fleet", spec.Name),
			}}
		}
	}

	res := &Result{}
	for i, spec := range m.Vessels {
		v, err := f.AddVessel(spec)
		if err != nil {
			return res, fmt.Errorf("vessels[%d]: %w", i, err)
		}
		res.Vessels = append(res.Vessels, v.Name())
	}

	for i, entry := range m.Containers {
		p, err := entry.Params()
		if err != nil {
			return res, fmt.Errorf("containers[%d]: %w", i, err)
		}
		c, err := f.CreateContainer(p)
		if err != nil {
			return res, fmt.Errorf("containers[%d]: %w", i, err)
		}
		res.Containers = append(res.Containers, c.Serial())

		if entry.Vessel != "" {
			if err := f.LoadOnto(c.Serial(), entry.Vessel, entry.Load); err != nil {
				return res, fmt.Errorf("containers[%d]: %w", i, err)
			}
			res.Aboard++
			continue
		}
		if entry.Load > 0 {
			if err := c.Load(entry.Load, f.Notifier()); err != nil {
				return res, fmt.Errorf("containers[%d]: %w", i, err)
			}
		}
	}
	return res, nil
}

// Snapshot describes the current fleet as a manifest: every vessel, then
// the containers aboard each vessel in order, then the free pool. Applying
// the snapshot to an empty fleet rebuilds the same layout with fresh
// serials.
func Snapshot(f *fleet.Fleet) *Manifest {
	m := &Manifest{}
	for _, v := range f.Vessels() {
		m.Vessels = append(m.Vessels, v.Spec())
	}
	for _, v := range f.Vessels() {
		for _, c := range v.Containers() {
			m.Containers = append(m.Containers, entryFor(c, v))
		}
	}
	for _, c := range f.FreeContainers() {
		m.Containers = append(m.Containers, entryFor(c, nil))
	}
	return m
}

func entryFor(c *cargo.Container, v *vessel.Vessel) Container {
	e := Container{
		Kind:       c.Kind().String(),
		TareWeight: c.TareWeight(),
		MaxLoad:    c.MaxLoad(),
		Hazardous:  c.Hazardous(),
		Load:       c.CurrentLoad(),
	}
	if p, ok := c.Pressure(); ok {
		e.Pressure = p
	}
	if r, ok := c.Refrigerated(); ok {
		e.Refrigerated = &r
	}
	if v != nil {
		e.Vessel = v.Name()
	}
	return e
}
