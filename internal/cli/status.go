// status.go implements the status banner and the hazard history.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cargofleet/internal/hazard"
)

func (s *Session) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show every vessel with its containers, then the free pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runStatus()
		},
	}
}

// runStatus prints the fleet banner:
//
//	==== Vessel List ====
//	Aurora (Speed: 20.00 knots, ...)
//	...
//
//	==== Free Container List ====
//	 - KON-C-3 | Load: 500.0/20,000.0 kg, ...
func (s *Session) runStatus() error {
	if s.IsJSONOutput() {
		return s.writeJSON(s.fleet.Status())
	}

	s.printf("==== Vessel List ====\n")
	vessels := s.fleet.Vessels()
	if len(vessels) == 0 {
		s.printf("  No vessels available.\n")
	}
	for _, v := range vessels {
		s.printf("%s\n", v)
	}

	s.printf("\n==== Free Container List ====\n")
	free := s.fleet.FreeContainers()
	if len(free) == 0 {
		s.printf("  No free containers available.\n")
	}
	for _, c := range free {
		s.printf(" - %s\n", c)
	}
	return nil
}

func (s *Session) newHazardsCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "hazards",
		Short: "List overfill attempts on hazard-capable containers",
		Long: `List the hazard events raised in this session, oldest first.

Gas containers and hazardous liquid containers raise an event every time a
load above their limit is refused.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events := s.hazards.Events()
			if reset {
				s.hazards.Reset()
			}

			if s.IsJSONOutput() {
				return s.writeJSON(struct {
					Events []hazard.Event `json:"events"`
				}{events})
			}
			if len(events) == 0 {
				s.printf("No hazard events recorded.\n")
				return nil
			}
			for _, ev := range events {
				s.printf("%s  %s\n", ev.At.Format("2006-01-02T15:04:05Z07:00"), ev)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "clear", false, "Forget the listed events")
	return cmd
}
