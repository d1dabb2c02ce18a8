package fleet

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shinji-kodama/cargofleet/internal/model"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

// LoadOnto sets the load of a free container and puts it aboard a vessel.
//
// The container's own loading policy is checked first, so an overfill is
// reported (and raises its hazard event) even when the vessel would refuse
// the weight too. The vessel is checked next against the prospective gross
// weight; only then is the container loaded and added. A refusal at any
// step leaves the container in the pool with its previous load.
func (f *Fleet) LoadOnto(serial, vesselName string, weight float64) error {
	c, ok := f.FreeContainer(serial)
	if !ok {
		return fmt.Errorf("free container %q: %w", serial, model.ErrNotFound)
	}
	v, err := f.LookupVessel(vesselName)
	if err != nil {
		return err
	}

	if err := c.Check(weight, f.notifier); err != nil {
		return err
	}
	if err := v.CanAccept(c.TareWeight() + weight); err != nil {
		return fmt.Errorf("load %s onto %s: %w", c.Serial(), v.Name(), err)
	}
	if err := c.Load(weight, nil); err != nil {
		return err
	}
	if err := v.Add(c); err != nil {
		return fmt.Errorf("load %s onto %s: %w", c.Serial(), v.Name(), err)
	}
	f.takeFree(c.Serial())

	f.log.Debug("container loaded onto vessel",
		zap.String("serial", c.Serial()),
		zap.String("vessel", v.Name()),
		zap.Float64("weight_kg", weight),
	)
	return nil
}

// Unload empties a container aboard the named vessel.
func (f *Fleet) Unload(vesselName, serial string) error {
	v, err := f.LookupVessel(vesselName)
	if err != nil {
		return err
	}
	if !v.Unload(serial) {
		return fmt.Errorf("container %q on vessel %s: %w", serial, v.Name(), model.ErrNotFound)
	}
	f.log.Debug("container unloaded", zap.String("serial", serial), zap.String("vessel", v.Name()))
	return nil
}

// Replace loads the free container newSerial with weight and swaps it for
// oldSerial aboard the named vessel.
//
// On success the new container leaves the pool and the old one joins it.
// When the vessel refuses the new container, the old one stays aboard
// where it was and the new one stays in the pool, keeping the load it was
// given.
func (f *Fleet) Replace(vesselName, oldSerial, newSerial string, weight float64) error {
	v, err := f.LookupVessel(vesselName)
	if err != nil {
		return err
	}
	if _, ok := v.Get(oldSerial); !ok {
		return fmt.Errorf("container %q on vessel %s: %w", oldSerial, v.Name(), model.ErrNotFound)
	}
	newC, ok := f.FreeContainer(newSerial)
	if !ok {
		return fmt.Errorf("free container %q: %w", newSerial, model.ErrNotFound)
	}
	if err := newC.Load(weight, f.notifier); err != nil {
		return err
	}

	old, found, err := v.Replace(oldSerial, newC)
	if !found {
		return fmt.Errorf("container %q on vessel %s: %w", oldSerial, v.Name(), model.ErrNotFound)
	}
	if err != nil {
		f.log.Info("container replacement rolled back",
			zap.String("vessel", v.Name()),
			zap.String("old_serial", oldSerial),
			zap.String("new_serial", newC.Serial()),
			zap.Error(err),
		)
		return err
	}

	f.takeFree(newC.Serial())
	f.addFree(old)
	f.log.Debug("container replaced",
		zap.String("vessel", v.Name()),
		zap.String("old_serial", old.Serial()),
		zap.String("new_serial", newC.Serial()),
	)
	return nil
}

// Transfer moves a container from src to dst and reports whether it moved.
//
// The container is added to dst before it is removed from src, so it is
// aboard at least one vessel at every step, and on failure src is left
// untouched. The reason for a failure is logged rather than returned.
func (f *Fleet) Transfer(serial string, src, dst *vessel.Vessel) bool {
	log := f.log.With(zap.String("serial", serial))
	if src == nil || dst == nil {
		log.Warn("container transfer failed: missing vessel")
		return false
	}
	log = log.With(zap.String("source", src.Name()), zap.String("destination", dst.Name()))

	if src == dst {
		log.Warn("container transfer failed: source and destination are the same vessel")
		return false
	}
	c, ok := src.Get(serial)
	if !ok {
		log.Warn("container transfer failed: container not aboard source")
		return false
	}
	if err := dst.Add(c); err != nil {
		log.Warn("container transfer failed", zap.Error(err))
		return false
	}
	src.Remove(c.Serial())

	log.Debug("container transferred")
	return true
}

// TransferByName resolves both vessels and runs Transfer. Unknown vessels
// are reported as ErrNotFound and a refused transfer as ErrTransferFailed.
func (f *Fleet) TransferByName(serial, from, to string) error {
	src, err := f.LookupVessel(from)
	if err != nil {
		return err
	}
	dst, err := f.LookupVessel(to)
	if err != nil {
		return err
	}
	if !f.Transfer(serial, src, dst) {
		return fmt.Errorf("container %s from %s to %s: %w", serial, src.Name(), dst.Name(), model.ErrTransferFailed)
	}
	return nil
}
