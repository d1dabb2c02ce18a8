package manifest

import (
	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

func vesselSpec(name string, maxCount int, maxTons float64) vessel.Spec {
	return vessel.Spec{Name: name, MaxSpeed: 12, MaxContainerCount: maxCount, MaxTotalWeight: maxTons}
}

func refrigeratedEntry(required, actual float64) Container {
	return Container{
		Kind:       "refrigerated",
		TareWeight: 2000,
		MaxLoad:    20000,
		Refrigerated: &cargo.RefrigeratedSpec{
			ProductType:          "Fish",
			RequiredTemperature:  required,
			ContainerTemperature: actual,
		},
	}
}
