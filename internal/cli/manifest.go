// manifest.go implements the validate and export commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cargofleet/internal/manifest"
	"github.com/shinji-kodama/cargofleet/internal/model"
)

func (s *Session) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Check a seed manifest without applying it",
		Long: `Parse and validate a seed manifest. Every problem is reported with the
path of the offending field.

Examples:
  cargofleet validate fleet.yaml
  cargofleet validate --json fleet.jsonc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runValidate(args[0])
		},
	}
}

// validationJSON is the JSON shape of one problem.
type validationJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (s *Session) runValidate(path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	problems := manifest.Validate(m)

	if s.IsJSONOutput() {
		res := struct {
			Valid    bool             `json:"valid"`
			Problems []validationJSON `json:"problems"`
		}{Valid: len(problems) == 0, Problems: make([]validationJSON, 0, len(problems))}
		for _, p := range problems {
			res.Problems = append(res.Problems, validationJSON{Field: p.Field, Message: p.Message})
		}
		if err := s.writeJSON(res); err != nil {
			return err
		}
	} else {
		if len(problems) == 0 {
			s.printf("%s: valid (%d vessel(s), %d container(s))\n", path, len(m.Vessels), len(m.Containers))
		}
		for _, p := range problems {
			s.printf("%s: %s\n", p.Field, p.Message)
		}
	}

	if len(problems) > 0 {
		return model.WrapCLIError(model.ExitInvalidInput,
			fmt.Sprintf("manifest %s is invalid", path), manifest.ValidationErrors(problems))
	}
	return nil
}

func (s *Session) newExportCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current fleet as a seed manifest",
		Long: `Describe the current fleet as a manifest that rebuilds the same layout.
Serial numbers are not part of a manifest; applying it assigns new ones.

Examples:
  cargofleet --manifest fleet.yaml export --format jsonc
  cargofleet export --output snapshot.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runExport(output, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "", "yaml or jsonc (default: from --output extension, else yaml)")
	return cmd
}

func (s *Session) runExport(output, format string) error {
	f, err := exportFormat(output, format)
	if err != nil {
		return err
	}
	data, err := manifest.Encode(manifest.Snapshot(s.fleet), f)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := s.out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	s.VerboseLog("Wrote %d bytes to %s", len(data), output)
	return nil
}

// exportFormat resolves the --format flag, falling back to the output
// file's extension and then to YAML.
func exportFormat(output, format string) (manifest.Format, error) {
	switch format {
	case "yaml", "yml":
		return manifest.FormatYAML, nil
	case "jsonc", "json":
		return manifest.FormatJSONC, nil
	case "":
	default:
		return "", model.NewCLIError(model.ExitInvalidInput, fmt.Sprintf("unknown format %q (want yaml or jsonc)", format))
	}
	if output == "" {
		return manifest.FormatYAML, nil
	}
	return manifest.FormatFor(output)
}
