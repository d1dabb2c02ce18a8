// container.go implements the "cargofleet container" command group:
// create, show and list.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/model"
)

// containerCreateFlags holds the flag values for the container create
// command. Kind-specific flags are rejected for other kinds.
type containerCreateFlags struct {
	tare    float64
	maxLoad float64

	hazardous bool
	pressure  float64

	product      string
	requiredTemp float64
	temp         float64
	height       float64
	depth        float64
}

func (s *Session) newContainerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Create and inspect containers",
	}
	cmd.AddCommand(s.newContainerCreateCommand())
	cmd.AddCommand(s.newContainerShowCommand())
	cmd.AddCommand(s.newContainerListCommand())
	return cmd
}

func (s *Session) newContainerCreateCommand() *cobra.Command {
	flags := &containerCreateFlags{}

	cmd := &cobra.Command{
		Use:   "create <liquid|gas|refrigerated>",
		Short: "Create a free container",
		Long: `Create an empty container in the free pool and print its serial number.

Serial numbers take the form KON-<tag>-<n>, where the tag is L (liquid),
G (gas) or C (refrigerated) and n increases across all kinds.

Examples:
  cargofleet container create liquid --tare 1000 --max-load 10000
  cargofleet container create liquid --tare 800 --max-load 4000 --hazardous
  cargofleet container create gas --tare 500 --max-load 5000 --pressure 3.5
  cargofleet container create refrigerated --tare 2000 --max-load 20000 \
      --product Bananas --required-temp 13.3 --temp 14`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runContainerCreate(cmd, args[0], flags)
		},
	}

	cmd.Flags().Float64Var(&flags.tare, "tare", 0, "Tare weight in kg")
	cmd.Flags().Float64Var(&flags.maxLoad, "max-load", 0, "Maximum load in kg (required)")
	cmd.Flags().BoolVar(&flags.hazardous, "hazardous", false, "Liquid: the cargo is hazardous (fill limit 50%)")
	cmd.Flags().Float64Var(&flags.pressure, "pressure", 0, "Gas: pressure in atmospheres")
	cmd.Flags().StringVar(&flags.product, "product", "", "Refrigerated: product type")
	cmd.Flags().Float64Var(&flags.requiredTemp, "required-temp", 0, "Refrigerated: minimum temperature the product needs in °C")
	cmd.Flags().Float64Var(&flags.temp, "temp", 0, "Refrigerated: temperature the container holds in °C")
	cmd.Flags().Float64Var(&flags.height, "height", 0, "Refrigerated: height in cm")
	cmd.Flags().Float64Var(&flags.depth, "depth", 0, "Refrigerated: depth in cm")
	_ = cmd.MarkFlagRequired("max-load")

	return cmd
}

// kindFlags lists the flags that only apply to one kind.
var kindFlags = map[string]model.Kind{
	"hazardous":     model.KindLiquid,
	"pressure":      model.KindGas,
	"product":       model.KindRefrigerated,
	"required-temp": model.KindRefrigerated,
	"temp":          model.KindRefrigerated,
	"height":        model.KindRefrigerated,
	"depth":         model.KindRefrigerated,
}

func (s *Session) runContainerCreate(cmd *cobra.Command, kindArg string, flags *containerCreateFlags) error {
	kind, err := model.ParseKind(kindArg)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "invalid container kind", err)
	}
	for name, only := range kindFlags {
		if cmd.Flags().Changed(name) && only != kind {
			return model.NewCLIError(model.ExitInvalidInput,
				fmt.Sprintf("--%s only applies to %s containers", name, only))
		}
	}
	if kind == model.KindRefrigerated && flags.product == "" {
		return model.NewCLIError(model.ExitInvalidInput, "refrigerated containers need --product")
	}

	c, err := s.fleet.CreateContainer(cargo.Params{
		Kind:       kind,
		TareWeight: flags.tare,
		MaxLoad:    flags.maxLoad,
		Hazardous:  flags.hazardous,
		Pressure:   flags.pressure,
		Refrigerated: cargo.RefrigeratedSpec{
			ProductType:          flags.product,
			RequiredTemperature:  flags.requiredTemp,
			ContainerTemperature: flags.temp,
			Height:               flags.height,
			Depth:                flags.depth,
		},
	})
	if err != nil {
		return err
	}
	if r, ok := c.Refrigerated(); ok && r.ContainerTemperature < r.RequiredTemperature {
		s.VerboseLog("Container %s is colder than %s needs; it cannot be loaded", c.Serial(), r.ProductType)
	}

	if s.IsJSONOutput() {
		return s.writeJSON(c.View())
	}
	s.printf("Container created: %s\n", c.Serial())
	return nil
}

// containerLocationJSON pairs a container with where it is.
type containerLocationJSON struct {
	cargo.View
	Vessel string `json:"vessel,omitempty"`
}

func (s *Session) newContainerShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <serial>",
		Short: "Show a container wherever it is in the fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, v, ok := s.fleet.FindContainer(args[0])
			if !ok {
				return fmt.Errorf("container %q: %w", args[0], model.ErrNotFound)
			}
			where := ""
			if v != nil {
				where = v.Name()
			}

			if s.IsJSONOutput() {
				return s.writeJSON(containerLocationJSON{View: c.View(), Vessel: where})
			}
			s.printf("%s\n", c)
			if where == "" {
				s.printf("Location: free pool\n")
			} else {
				s.printf("Location: aboard %s\n", where)
			}
			return nil
		},
	}
}

func (s *Session) newContainerListCommand() *cobra.Command {
	var freeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List containers, aboard vessels first, then the free pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runContainerList(freeOnly)
		},
	}
	cmd.Flags().BoolVar(&freeOnly, "free", false, "List only containers in the free pool")
	return cmd
}

// runContainerList prints one row per container:
//
//	SERIAL       KIND          LOAD (KG)             LOCATION
//	KON-L-1      liquid        9,000.0               Aurora
//	KON-C-3      refrigerated  500.0                 -
func (s *Session) runContainerList(freeOnly bool) error {
	rows := make([]containerLocationJSON, 0)
	if !freeOnly {
		for _, v := range s.fleet.Vessels() {
			for _, c := range v.Containers() {
				rows = append(rows, containerLocationJSON{View: c.View(), Vessel: v.Name()})
			}
		}
	}
	for _, c := range s.fleet.FreeContainers() {
		rows = append(rows, containerLocationJSON{View: c.View()})
	}

	if s.IsJSONOutput() {
		return s.writeJSON(struct {
			Containers []containerLocationJSON `json:"containers"`
		}{rows})
	}

	if len(rows) == 0 {
		s.printf("No containers found.\n")
		return nil
	}
	s.printf("%-12s %-13s %-21s %s\n", "SERIAL", "KIND", "LOAD (KG)", "LOCATION")
	for _, r := range rows {
		where := r.Vessel
		if where == "" {
			where = "-"
		}
		s.printf("%-12s %-13s %-21s %s\n", r.Serial, r.Kind, cargo.FormatKg(r.CurrentLoad), where)
	}
	return nil
}
