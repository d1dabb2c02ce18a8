// cargo.go implements the commands that move cargo: load, unload, replace
// and transfer.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/model"
)

// parseWeight converts a positional weight argument in kilograms.
func parseWeight(arg string) (float64, error) {
	w, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, model.NewCLIError(model.ExitInvalidInput,
			fmt.Sprintf("invalid weight %q: expected a number of kilograms", arg))
	}
	return w, nil
}

// moveResultJSON is the JSON output of every cargo movement.
type moveResultJSON struct {
	Action    string      `json:"action"`
	Vessel    string      `json:"vessel,omitempty"`
	From      string      `json:"from,omitempty"`
	To        string      `json:"to,omitempty"`
	Container cargo.View  `json:"container"`
	Returned  *cargo.View `json:"returnedToPool,omitempty"`
}

func (s *Session) newLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <serial> <vessel> <weight-kg>",
		Short: "Load a free container and put it aboard a vessel",
		Long: `Set the cargo weight of a free container and put it aboard a vessel.

The vessel's count and weight limits are checked before the container is
loaded, so a refused container keeps its previous load and stays free.

Examples:
  cargofleet load KON-L-1 Aurora 8000`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := parseWeight(args[2])
			if err != nil {
				return err
			}
			return s.runLoad(args[0], args[1], weight)
		},
	}
}

func (s *Session) runLoad(serial, vesselName string, weight float64) error {
	if err := s.fleet.LoadOnto(serial, vesselName, weight); err != nil {
		return err
	}
	c, v, _ := s.fleet.FindContainer(serial)

	if s.IsJSONOutput() {
		return s.writeJSON(moveResultJSON{Action: "load", Vessel: v.Name(), Container: c.View()})
	}
	s.printf("Container %s loaded onto vessel %s with %s kg of load.\n",
		c.Serial(), v.Name(), cargo.FormatKg(weight))
	return nil
}

func (s *Session) newUnloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unload <vessel> <serial>",
		Short: "Empty a container aboard a vessel",
		Long: `Empty a container while it stays aboard. Gas containers keep 5% of
their load as residue.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runUnload(args[0], args[1])
		},
	}
}

func (s *Session) runUnload(vesselName, serial string) error {
	if err := s.fleet.Unload(vesselName, serial); err != nil {
		return err
	}
	v, _ := s.fleet.Vessel(vesselName)
	c, _ := v.Get(serial)

	if s.IsJSONOutput() {
		return s.writeJSON(moveResultJSON{Action: "unload", Vessel: v.Name(), Container: c.View()})
	}
	s.printf("Container %s on vessel %s has been unloaded", c.Serial(), v.Name())
	if c.CurrentLoad() > 0 {
		s.printf(" (%s kg residue remains)", cargo.FormatKg(c.CurrentLoad()))
	}
	s.printf(".\n")
	return nil
}

func (s *Session) newReplaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replace <vessel> <old-serial> <new-serial> <weight-kg>",
		Short: "Swap a container aboard a vessel for a free one",
		Long: `Load a free container and swap it in for a container aboard a vessel,
in the same position.

If the vessel refuses the new container, the old one stays aboard where it
was and the new one stays in the free pool with the load it was given. On
success the old container returns to the free pool.

Examples:
  cargofleet replace Aurora KON-L-1 KON-G-4 4000`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := parseWeight(args[3])
			if err != nil {
				return err
			}
			return s.runReplace(args[0], args[1], args[2], weight)
		},
	}
}

func (s *Session) runReplace(vesselName, oldSerial, newSerial string, weight float64) error {
	if err := s.fleet.Replace(vesselName, oldSerial, newSerial, weight); err != nil {
		return err
	}
	v, _ := s.fleet.Vessel(vesselName)
	newC, _ := v.Get(newSerial)
	oldC, _ := s.fleet.FreeContainer(oldSerial)

	if s.IsJSONOutput() {
		returned := oldC.View()
		return s.writeJSON(moveResultJSON{Action: "replace", Vessel: v.Name(), Container: newC.View(), Returned: &returned})
	}
	s.printf("Container %s on vessel %s replaced with %s.\n", oldC.Serial(), v.Name(), newC.Serial())
	return nil
}

func (s *Session) newTransferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <serial> <from-vessel> <to-vessel>",
		Short: "Move a container from one vessel to another",
		Long: `Move a container between vessels. The destination must accept it under
its count and weight limits; otherwise the container stays where it was.

Examples:
  cargofleet transfer KON-L-1 Aurora Borealis`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runTransfer(args[0], args[1], args[2])
		},
	}
}

func (s *Session) runTransfer(serial, from, to string) error {
	if err := s.fleet.TransferByName(serial, from, to); err != nil {
		return err
	}
	dst, _ := s.fleet.Vessel(to)
	src, _ := s.fleet.Vessel(from)
	c, _ := dst.Get(serial)

	if s.IsJSONOutput() {
		return s.writeJSON(moveResultJSON{Action: "transfer", From: src.Name(), To: dst.Name(), Container: c.View()})
	}
	s.printf("Container %s transferred from %s to %s.\n", c.Serial(), src.Name(), dst.Name())
	return nil
}
