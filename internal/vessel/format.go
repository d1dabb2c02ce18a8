package vessel

import (
	"strconv"
	"strings"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
)

// String renders the vessel header followed by one line per container:
//
//	Aurora (Speed: 20.00 knots, Max containers: 5, Max total weight: 40.00 tons, Load: 3,400.0/40,000.0 kg)
//	  Container list:
//	   - KON-L-1 | Load: ...
func (v *Vessel) String() string {
	var b strings.Builder
	b.WriteString(v.spec.Name)
	b.WriteString(" (Speed: " + cargo.FormatNumber(v.spec.MaxSpeed) + " knots")
	b.WriteString(", Max containers: " + strconv.Itoa(v.spec.MaxContainerCount))
	b.WriteString(", Max total weight: " + cargo.FormatNumber(v.spec.MaxTotalWeight) + " tons")
	b.WriteString(", Load: " + cargo.FormatKg(v.TotalWeight()) + "/" + cargo.FormatKg(v.WeightLimitKg()) + " kg)")

	if len(v.containers) == 0 {
		b.WriteString("\n  No containers.")
		return b.String()
	}
	b.WriteString("\n  Container list:")
	for _, c := range v.containers {
		b.WriteString("\n   - ")
		b.WriteString(c.String())
	}
	return b.String()
}

// View is the JSON projection of a vessel used by the CLI.
type View struct {
	Spec
	ContainerCount int          `json:"containerCount"`
	TotalWeightKg  float64      `json:"totalWeightKg"`
	WeightLimitKg  float64      `json:"weightLimitKg"`
	Containers     []cargo.View `json:"containers"`
}

// View returns the JSON projection of v.
func (v *Vessel) View() View {
	out := View{
		Spec:           v.spec,
		ContainerCount: len(v.containers),
		TotalWeightKg:  v.TotalWeight(),
		WeightLimitKg:  v.WeightLimitKg(),
		Containers:     make([]cargo.View, 0, len(v.containers)),
	}
	for _, c := range v.containers {
		out.Containers = append(out.Containers, c.View())
	}
	return out
}
