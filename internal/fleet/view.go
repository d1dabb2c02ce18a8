package fleet

import (
	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

// Status is a read-only snapshot of the whole fleet.
type Status struct {
	Vessels []vessel.View `json:"vessels"`
	Free    []cargo.View  `json:"freeContainers"`
}

// Status projects every vessel and free container.
func (f *Fleet) Status() Status {
	s := Status{
		Vessels: make([]vessel.View, 0, len(f.vesselOrder)),
		Free:    make([]cargo.View, 0, len(f.freeOrder)),
	}
	for _, v := range f.Vessels() {
		s.Vessels = append(s.Vessels, v.View())
	}
	for _, c := range f.FreeContainers() {
		s.Free = append(s.Free, c.View())
	}
	return s
}
