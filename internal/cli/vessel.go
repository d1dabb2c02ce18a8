// vessel.go implements the "cargofleet vessel" command group: add, remove,
// show and list.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

// vesselAddFlags holds the flag values for the vessel add command.
type vesselAddFlags struct {
	maxSpeed      float64
	maxContainers int
	maxWeight     float64
}

func (s *Session) newVesselCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vessel",
		Aliases: []string{"ship"},
		Short:   "Manage vessels",
	}
	cmd.AddCommand(s.newVesselAddCommand())
	cmd.AddCommand(s.newVesselRemoveCommand())
	cmd.AddCommand(s.newVesselShowCommand())
	cmd.AddCommand(s.newVesselListCommand())
	return cmd
}

func (s *Session) newVesselAddCommand() *cobra.Command {
	flags := &vesselAddFlags{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a vessel to the fleet",
		Long: `Add a vessel with its container count and total weight limits.

Vessel names are unique regardless of case.

Examples:
  cargofleet vessel add Aurora --max-containers 10 --max-weight 40
  cargofleet vessel add "Blue Horizon" --max-speed 18.5 --max-containers 4 --max-weight 25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runVesselAdd(args[0], flags)
		},
	}

	cmd.Flags().Float64Var(&flags.maxSpeed, "max-speed", 0, "Maximum speed in knots")
	cmd.Flags().IntVar(&flags.maxContainers, "max-containers", 0, "Maximum number of containers (required)")
	cmd.Flags().Float64Var(&flags.maxWeight, "max-weight", 0, "Maximum total weight in tons (required)")
	_ = cmd.MarkFlagRequired("max-containers")
	_ = cmd.MarkFlagRequired("max-weight")

	return cmd
}

func (s *Session) runVesselAdd(name string, flags *vesselAddFlags) error {
	v, err := s.fleet.AddVessel(vessel.Spec{
		Name:              name,
		MaxSpeed:          flags.maxSpeed,
		MaxContainerCount: flags.maxContainers,
		MaxTotalWeight:    flags.maxWeight,
	})
	if err != nil {
		return err
	}

	if s.IsJSONOutput() {
		return s.writeJSON(v.View())
	}
	s.printf("Vessel added: %s\n", v.Name())
	return nil
}

func (s *Session) newVesselRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a vessel and the containers aboard it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runVesselRemove(args[0])
		},
	}
}

func (s *Session) runVesselRemove(name string) error {
	v, err := s.fleet.RemoveVessel(name)
	if err != nil {
		return err
	}
	if v.Len() > 0 {
		s.VerboseLog("Vessel %s left the fleet with %d container(s) aboard", v.Name(), v.Len())
	}

	if s.IsJSONOutput() {
		type resultJSON struct {
			Removed    string   `json:"removed"`
			Containers []string `json:"containers"`
		}
		res := resultJSON{Removed: v.Name(), Containers: make([]string, 0, v.Len())}
		for _, c := range v.Containers() {
			res.Containers = append(res.Containers, c.Serial())
		}
		return s.writeJSON(res)
	}
	s.printf("Vessel removed: %s\n", v.Name())
	return nil
}

func (s *Session) newVesselShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a vessel, its limits and the containers aboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := s.fleet.LookupVessel(args[0])
			if err != nil {
				return err
			}
			if s.IsJSONOutput() {
				return s.writeJSON(v.View())
			}
			s.printf("%s\n", v)
			return nil
		},
	}
}

func (s *Session) newVesselListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vessels with their load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runVesselList()
		},
	}
}

// runVesselList prints one row per vessel:
//
//	NAME                 CONTAINERS  LOAD (KG)             LIMIT (KG)
//	Aurora               2/3         15,500.0              40,000.0
func (s *Session) runVesselList() error {
	vessels := s.fleet.Vessels()

	if s.IsJSONOutput() {
		type resultJSON struct {
			Vessels []vessel.View `json:"vessels"`
		}
		res := resultJSON{Vessels: make([]vessel.View, 0, len(vessels))}
		for _, v := range vessels {
			res.Vessels = append(res.Vessels, v.View())
		}
		return s.writeJSON(res)
	}

	if len(vessels) == 0 {
		s.printf("No vessels found.\n")
		return nil
	}
	s.printf("%-20s %-11s %-21s %s\n", "NAME", "CONTAINERS", "LOAD (KG)", "LIMIT (KG)")
	for _, v := range vessels {
		s.printf("%-20s %-11s %-21s %s\n",
			v.Name(),
			fmt.Sprintf("%d/%d", v.Len(), v.MaxContainerCount()),
			cargo.FormatKg(v.TotalWeight()),
			cargo.FormatKg(v.WeightLimitKg()),
		)
	}
	return nil
}
