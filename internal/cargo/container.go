package cargo

import (
	"fmt"
	"math"

	"github.com/shinji-kodama/cargofleet/internal/hazard"
	"github.com/shinji-kodama/cargofleet/internal/model"
)

const (
	// hazardousLiquidRatio is the fill limit for hazardous liquids.
	hazardousLiquidRatio = 0.5

	// liquidRatio is the fill limit for ordinary liquids.
	liquidRatio = 0.9

	// gasResidueRatio is the share of a gas load left behind by Unload.
	gasResidueRatio = 0.05
)

// RefrigeratedSpec holds the fields specific to refrigerated containers.
type RefrigeratedSpec struct {
	// ProductType names the carried product (e.g. "bananas").
	ProductType string `json:"productType" yaml:"productType"`

	// RequiredTemperature is the minimum temperature in °C the product
	// tolerates.
	RequiredTemperature float64 `json:"requiredTemperature" yaml:"requiredTemperature"`

	// ContainerTemperature is the temperature in °C the container holds.
	ContainerTemperature float64 `json:"containerTemperature" yaml:"containerTemperature"`

	// Height and Depth are informational dimensions in centimetres.
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Depth  float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// Params describes a container to be created. Only the fields that match
// Kind are used.
type Params struct {
	Kind       model.Kind
	TareWeight float64
	MaxLoad    float64

	// Hazardous applies to liquid containers.
	Hazardous bool

	// Pressure in atmospheres applies to gas containers.
	Pressure float64

	// Refrigerated applies to refrigerated containers.
	Refrigerated RefrigeratedSpec
}

// Validate checks the numeric domains shared by all kinds.
func (p Params) Validate() error {
	if !p.Kind.IsValid() {
		return fmt.Errorf("%w: unknown container kind %q", model.ErrInvalidArgument, p.Kind)
	}
	if math.IsNaN(p.TareWeight) || p.TareWeight < 0 {
		return fmt.Errorf("%w: tare weight must be non-negative, got %g", model.ErrInvalidArgument, p.TareWeight)
	}
	if math.IsNaN(p.MaxLoad) || p.MaxLoad <= 0 {
		return fmt.Errorf("%w: max load must be positive, got %g", model.ErrInvalidArgument, p.MaxLoad)
	}
	return nil
}

// Container is a cargo container of one Kind. Serial, tare weight and
// maximum load are fixed at creation; the current load only changes through
// Load and Unload.
//
// A Container is not safe for concurrent use.
type Container struct {
	serial     string
	kind       model.Kind
	tareWeight float64
	maxLoad    float64
	load       float64

	hazardous    bool
	pressure     float64
	refrigerated RefrigeratedSpec
}

// New creates a container described by p and assigns it the next serial
// from g. No serial is consumed when p is invalid.
func (g *Generator) New(p Params) (*Container, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		serial:     g.Next(p.Kind),
		kind:       p.Kind,
		tareWeight: p.TareWeight,
		maxLoad:    p.MaxLoad,
	}
	switch p.Kind {
	case model.KindLiquid:
		c.hazardous = p.Hazardous
	case model.KindGas:
		c.pressure = p.Pressure
	case model.KindRefrigerated:
		c.refrigerated = p.Refrigerated
	}
	return c, nil
}

// NewLiquid creates a liquid container.
func (g *Generator) NewLiquid(tare, maxLoad float64, hazardous bool) (*Container, error) {
	return g.New(Params{Kind: model.KindLiquid, TareWeight: tare, MaxLoad: maxLoad, Hazardous: hazardous})
}

// NewGas creates a gas container.
func (g *Generator) NewGas(tare, maxLoad, pressure float64) (*Container, error) {
	return g.New(Params{Kind: model.KindGas, TareWeight: tare, MaxLoad: maxLoad, Pressure: pressure})
}

// NewRefrigerated creates a refrigerated container.
func (g *Generator) NewRefrigerated(tare, maxLoad float64, spec RefrigeratedSpec) (*Container, error) {
	return g.New(Params{Kind: model.KindRefrigerated, TareWeight: tare, MaxLoad: maxLoad, Refrigerated: spec})
}

// Serial returns the serial number, e.g. "KON-L-1".
func (c *Container) Serial() string { return c.serial }

// Kind returns the container kind.
func (c *Container) Kind() model.Kind { return c.kind }

// TareWeight returns the empty weight in kg.
func (c *Container) TareWeight() float64 { return c.tareWeight }

// MaxLoad returns the nominal capacity in kg.
func (c *Container) MaxLoad() float64 { return c.maxLoad }

// CurrentLoad returns the cargo weight in kg.
func (c *Container) CurrentLoad() float64 { return c.load }

// GrossWeight is tare plus current load, the figure vessels add up.
func (c *Container) GrossWeight() float64 {
	return c.tareWeight + c.load
}

// Hazardous reports whether a liquid container carries hazardous material.
// It is always false for other kinds.
func (c *Container) Hazardous() bool {
	return c.kind == model.KindLiquid && c.hazardous
}

// Pressure returns the gas pressure in atmospheres and whether the
// container is a gas container.
func (c *Container) Pressure() (float64, bool) {
	return c.pressure, c.kind == model.KindGas
}

// Refrigerated returns the refrigeration fields and whether the container
// is refrigerated.
func (c *Container) Refrigerated() (RefrigeratedSpec, bool) {
	return c.refrigerated, c.kind == model.KindRefrigerated
}

// HazardCapable reports whether the container raises hazard notifications
// on overfill: gas containers always, liquid containers when hazardous.
func (c *Container) HazardCapable() bool {
	return IsHazardCapable(c.kind, c.hazardous)
}

// IsHazardCapable is the kind-level predicate behind HazardCapable.
func IsHazardCapable(kind model.Kind, hazardous bool) bool {
	switch kind {
	case model.KindGas:
		return true
	case model.KindLiquid:
		return hazardous
	default:
		return false
	}
}

// Limit returns the largest load the container accepts.
func (c *Container) Limit() float64 {
	return LimitFor(c.kind, c.maxLoad, c.hazardous)
}

// LimitFor is the largest load a container of the given kind and capacity
// accepts.
func LimitFor(kind model.Kind, maxLoad float64, hazardous bool) float64 {
	if kind == model.KindLiquid {
		if hazardous {
			return maxLoad * hazardousLiquidRatio
		}
		return maxLoad * liquidRatio
	}
	return maxLoad
}

// Load sets the current load to weight kilograms. The load is absolute, not
// added to what is already inside.
//
// On a policy violation Load returns a *model.OverfillError and leaves the
// current load unchanged. Hazard-capable containers first report the attempt
// to n, exactly once; n may be nil.
func (c *Container) Load(weight float64, n hazard.Notifier) error {
	if err := c.Check(weight, n); err != nil {
		return err
	}
	c.load = weight
	return nil
}

// Check applies the loading policy to weight without changing the load.
// Refusals are reported exactly as Load reports them, hazard event
// included.
func (c *Container) Check(weight float64, n hazard.Notifier) error {
	if math.IsNaN(weight) || weight < 0 {
		return fmt.Errorf("%w: load weight must be non-negative, got %g", model.ErrInvalidArgument, weight)
	}

	switch c.kind {
	case model.KindLiquid, model.KindGas:
		limit := c.Limit()
		if weight > limit {
			if c.HazardCapable() {
				hazard.Notify(n, hazard.NewEvent(c.serial, c.kind, weight, limit))
			}
			return c.overfill(weight, limit)
		}
	case model.KindRefrigerated:
		if weight > c.maxLoad {
			return c.overfill(weight, c.maxLoad)
		}
		if c.refrigerated.ContainerTemperature < c.refrigerated.RequiredTemperature {
			return &model.OverfillError{
				Serial:               c.serial,
				Kind:                 c.kind,
				Reason:               model.ReasonTemperature,
				Weight:               weight,
				Limit:                c.maxLoad,
				Product:              c.refrigerated.ProductType,
				ContainerTemperature: c.refrigerated.ContainerTemperature,
				RequiredTemperature:  c.refrigerated.RequiredTemperature,
			}
		}
	default:
		return fmt.Errorf("%w: container %s has unknown kind %q", model.ErrInvalidArgument, c.serial, c.kind)
	}
	return nil
}

func (c *Container) overfill(weight, limit float64) error {
	return &model.OverfillError{
		Serial: c.serial,
		Kind:   c.kind,
		Reason: model.ReasonCapacity,
		Weight: weight,
		Limit:  limit,
	}
}

// Unload empties the container. Gas containers keep 5% of their load as
// residue that cannot be purged. Unload never fails.
func (c *Container) Unload() {
	if c.kind == model.KindGas {
		c.load *= gasResidueRatio
		return
	}
	c.load = 0
}
