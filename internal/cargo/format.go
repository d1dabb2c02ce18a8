package cargo

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shinji-kodama/cargofleet/internal/model"
)

// printer renders numbers with English digit grouping (9,000.0).
var printer = message.NewPrinter(language.English)

// FormatKg renders a weight in kilograms with one decimal place.
func FormatKg(v float64) string {
	return printer.Sprintf("%.1f", v)
}

// FormatNumber renders an informational quantity (temperature, pressure,
// dimension) with up to two decimals.
func FormatNumber(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// String renders the container on one line:
//
//	KON-C-3 | Load: 8,000.0/10,000.0 kg, Tare: 1,000.0 kg | Product: bananas, Temp: 14.00°C (req: 13.30°C)
func (c *Container) String() string {
	s := printer.Sprintf("%s | Load: %s/%s kg, Tare: %s kg",
		c.serial, FormatKg(c.load), FormatKg(c.maxLoad), FormatKg(c.tareWeight))

	switch c.kind {
	case model.KindLiquid:
		if c.hazardous {
			s += " | Hazardous liquid"
		} else {
			s += " | Liquid"
		}
	case model.KindGas:
		s += " | Gas, Pressure: " + FormatNumber(c.pressure) + " atm"
	case model.KindRefrigerated:
		r := c.refrigerated
		s += " | Product: " + r.ProductType +
			", Temp: " + FormatNumber(r.ContainerTemperature) + "°C" +
			" (req: " + FormatNumber(r.RequiredTemperature) + "°C)"
	}
	return s
}

// View is the JSON projection of a container used by the CLI.
type View struct {
	Serial        string            `json:"serial"`
	Kind          model.Kind        `json:"kind"`
	TareWeight    float64           `json:"tareWeight"`
	MaxLoad       float64           `json:"maxLoad"`
	CurrentLoad   float64           `json:"currentLoad"`
	Limit         float64           `json:"limit"`
	Hazardous     bool              `json:"hazardous,omitempty"`
	HazardCapable bool              `json:"hazardCapable"`
	Pressure      *float64          `json:"pressure,omitempty"`
	Refrigerated  *RefrigeratedSpec `json:"refrigerated,omitempty"`
}

// View returns the JSON projection of c.
func (c *Container) View() View {
	v := View{
		Serial:        c.serial,
		Kind:          c.kind,
		TareWeight:    c.tareWeight,
		MaxLoad:       c.maxLoad,
		CurrentLoad:   c.load,
		Limit:         c.Limit(),
		Hazardous:     c.Hazardous(),
		HazardCapable: c.HazardCapable(),
	}
	if p, ok := c.Pressure(); ok {
		v.Pressure = &p
	}
	if r, ok := c.Refrigerated(); ok {
		v.Refrigerated = &r
	}
	return v
}
