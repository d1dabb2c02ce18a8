package fleet

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/hazard"
	"github.com/shinji-kodama/cargofleet/internal/model"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

// Fleet holds the vessels and free containers of one session.
type Fleet struct {
	id       uuid.UUID
	log      *zap.Logger
	gen      *cargo.Generator
	notifier hazard.Notifier
	fold     cases.Caser

	vessels     map[string]*vessel.Vessel
	vesselOrder []string

	free      map[string]*cargo.Container
	freeOrder []string
}

// Option configures a Fleet.
type Option func(*Fleet)

// WithLogger sets the logger used for operation diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(f *Fleet) {
		if log != nil {
			f.log = log
		}
	}
}

// WithNotifier sets the sink receiving hazard events from every Load the
// fleet performs.
func WithNotifier(n hazard.Notifier) Option {
	return func(f *Fleet) {
		f.notifier = n
	}
}

// WithGenerator replaces the fleet's serial generator.
func WithGenerator(g *cargo.Generator) Option {
	return func(f *Fleet) {
		if g != nil {
			f.gen = g
		}
	}
}

// New creates an empty fleet.
func New(opts ...Option) *Fleet {
	f := &Fleet{
		id:      uuid.New(),
		log:     zap.NewNop(),
		gen:     cargo.NewGenerator(),
		fold:    cases.Fold(),
		vessels: make(map[string]*vessel.Vessel),
		free:    make(map[string]*cargo.Container),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.Named("fleet").With(zap.String("fleet_id", f.id.String()))
	return f
}

// ID identifies the fleet in log output.
func (f *Fleet) ID() uuid.UUID { return f.id }

// Generator returns the serial generator owned by the fleet.
func (f *Fleet) Generator() *cargo.Generator { return f.gen }

// Notifier returns the hazard sink handed to every Load.
func (f *Fleet) Notifier() hazard.Notifier { return f.notifier }

func (f *Fleet) key(s string) string {
	return f.fold.String(s)
}

// AddVessel registers a new vessel. Names are unique regardless of case.
func (f *Fleet) AddVessel(spec vessel.Spec) (*vessel.Vessel, error) {
	v, err := vessel.New(spec)
	if err != nil {
		return nil, err
	}
	k := f.key(v.Name())
	if _, exists := f.vessels[k]; exists {
		return nil, fmt.Errorf("vessel %q: %w", v.Name(), model.ErrDuplicateVessel)
	}
	f.vessels[k] = v
	f.vesselOrder = append(f.vesselOrder, k)
	f.log.Debug("vessel added",
		zap.String("vessel", v.Name()),
		zap.Int("max_containers", v.MaxContainerCount()),
		zap.Float64("max_weight_t", v.MaxTotalWeight()),
	)
	return v, nil
}

// RemoveVessel unregisters a vessel. Containers aboard leave the fleet with
// it.
func (f *Fleet) RemoveVessel(name string) (*vessel.Vessel, error) {
	k := f.key(name)
	v, ok := f.vessels[k]
	if !ok {
		return nil, fmt.Errorf("vessel %q: %w", name, model.ErrNotFound)
	}
	delete(f.vessels, k)
	f.vesselOrder = removeKey(f.vesselOrder, k)
	f.log.Debug("vessel removed", zap.String("vessel", v.Name()), zap.Int("containers", v.Len()))
	return v, nil
}

// Vessel looks up a vessel by case-insensitive name.
func (f *Fleet) Vessel(name string) (*vessel.Vessel, bool) {
	v, ok := f.vessels[f.key(name)]
	return v, ok
}

// LookupVessel looks up a vessel and reports a wrapped ErrNotFound when it is
// not registered.
func (f *Fleet) LookupVessel(name string) (*vessel.Vessel, error) {
	v, ok := f.Vessel(name)
	if !ok {
		return nil, fmt.Errorf("vessel %q: %w", name, model.ErrNotFound)
	}
	return v, nil
}

// Vessels returns the registered vessels in registration order.
func (f *Fleet) Vessels() []*vessel.Vessel {
	out := make([]*vessel.Vessel, 0, len(f.vesselOrder))
	for _, k := range f.vesselOrder {
		out = append(out, f.vessels[k])
	}
	return out
}

// CreateContainer builds a container with the next serial and puts it in
// the free pool.
func (f *Fleet) CreateContainer(p cargo.Params) (*cargo.Container, error) {
	c, err := f.gen.New(p)
	if err != nil {
		return nil, err
	}
	f.addFree(c)
	f.log.Debug("container created", zap.String("serial", c.Serial()), zap.String("kind", c.Kind().String()))
	return c, nil
}

// FreeContainers returns the free containers in creation order.
func (f *Fleet) FreeContainers() []*cargo.Container {
	out := make([]*cargo.Container, 0, len(f.freeOrder))
	for _, k := range f.freeOrder {
		out = append(out, f.free[k])
	}
	return out
}

// FreeContainer looks up a free container by case-insensitive serial.
func (f *Fleet) FreeContainer(serial string) (*cargo.Container, bool) {
	c, ok := f.free[f.key(serial)]
	return c, ok
}

// FindContainer looks for serial in the free pool, then aboard each vessel
// in registration order. The returned vessel is nil for free containers.
func (f *Fleet) FindContainer(serial string) (*cargo.Container, *vessel.Vessel, bool) {
	if c, ok := f.FreeContainer(serial); ok {
		return c, nil, true
	}
	for _, v := range f.Vessels() {
		if c, ok := v.Get(serial); ok {
			return c, v, true
		}
	}
	return nil, nil, false
}

func (f *Fleet) addFree(c *cargo.Container) {
	k := f.key(c.Serial())
	if _, exists := f.free[k]; !exists {
		f.freeOrder = append(f.freeOrder, k)
	}
	f.free[k] = c
}

func (f *Fleet) takeFree(serial string) {
	k := f.key(serial)
	if _, ok := f.free[k]; !ok {
		return
	}
	delete(f.free, k)
	f.freeOrder = removeKey(f.freeOrder, k)
}

func removeKey(keys []string, k string) []string {
	for i, existing := range keys {
		if existing == k {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
