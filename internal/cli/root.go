// Package cli implements the cobra-based CLI commands for cargofleet.
//
// Commands act on a Session: the fleet, its hazard history, the logger and
// the output streams. A one-shot invocation builds a fresh session (seeded
// from a manifest when one is configured) and runs a single command
// against it. The shell and run commands keep the session and execute many
// command lines against the same fleet.
//
// Each group of subcommands is defined in its own file within this
// package. This file defines the root command and global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/cargofleet/internal/config"
	"github.com/shinji-kodama/cargofleet/internal/fleet"
	"github.com/shinji-kodama/cargofleet/internal/hazard"
	"github.com/shinji-kodama/cargofleet/internal/logging"
	"github.com/shinji-kodama/cargofleet/internal/manifest"
	"github.com/shinji-kodama/cargofleet/internal/model"
)

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// globalFlags holds the values of the root command's persistent flags.
type globalFlags struct {
	// json switches command output to structured JSON for machine
	// consumption. Errors go to stderr as JSON too.
	json bool

	// verbose enables [verbose] trace lines on stderr and forces the
	// logger to debug level.
	verbose bool

	// configPath names an optional configuration file.
	configPath string

	// manifestPath names a seed manifest applied before the command runs.
	// It overrides the manifest key of the configuration.
	manifestPath string
}

// Session is the state every command operates on.
type Session struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	flags globalFlags

	cfg     *config.Config
	log     *zap.Logger
	fleet   *fleet.Fleet
	hazards *hazard.Recorder

	// scripts holds the absolute paths of the scripts being run, so a
	// script cannot run itself directly or through another script.
	scripts map[string]bool
}

// NewSession creates a session reading command input from in and writing
// results to out and diagnostics to errOut. The fleet is built on first
// use.
func NewSession(in io.Reader, out, errOut io.Writer) *Session {
	return &Session{in: in, out: out, errOut: errOut}
}

// Fleet returns the session's fleet, or nil before the first command ran.
func (s *Session) Fleet() *fleet.Fleet { return s.fleet }

// NewRootCommand creates the root cobra command bound to the process's
// standard streams. This is the entry point for the entire CLI application.
func NewRootCommand() *cobra.Command {
	return NewSession(os.Stdin, os.Stdout, os.Stderr).RootCommand()
}

// RootCommand creates the top-level command tree for the session.
//
// The root command itself does not perform any action. It only provides
// help text and global flags, and starts the session before any
// subcommand runs.
func (s *Session) RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cargofleet",
		Short: "In-memory cargo fleet inventory",
		Long: `cargofleet manages vessels and the cargo containers they carry.

Liquid, gas and refrigerated containers are created, loaded, moved between
vessels, replaced and inspected. Every vessel enforces its container count
and total weight limits, and every container its own loading policy.

State lives in memory. Use --manifest to start from a seeded fleet, and the
shell or run commands to issue several commands against one fleet.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.start()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&s.flags.json, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&s.flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&s.flags.configPath, "config", "", "Path to a configuration file")
	rootCmd.PersistentFlags().StringVar(&s.flags.manifestPath, "manifest", "", "Seed manifest (.yaml, .yml, .json, .jsonc)")

	s.addCommands(rootCmd, true)
	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.errOut)
	return rootCmd
}

// lineCommand creates the command tree used for one shell or script line.
// It carries the same operations but only the output flags: the session
// is already started, so config and manifest no longer apply.
func (s *Session) lineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cargofleet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&s.flags.json, "json", s.flags.json, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&s.flags.verbose, "verbose", "v", s.flags.verbose, "Enable verbose output")

	s.addCommands(cmd, false)
	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)
	return cmd
}

// addCommands registers the subcommands. The shell is only offered at top
// level.
func (s *Session) addCommands(root *cobra.Command, topLevel bool) {
	root.AddCommand(s.newVesselCommand())
	root.AddCommand(s.newContainerCommand())
	root.AddCommand(s.newLoadCommand())
	root.AddCommand(s.newUnloadCommand())
	root.AddCommand(s.newReplaceCommand())
	root.AddCommand(s.newTransferCommand())
	root.AddCommand(s.newStatusCommand())
	root.AddCommand(s.newHazardsCommand())
	root.AddCommand(s.newValidateCommand())
	root.AddCommand(s.newExportCommand())
	root.AddCommand(s.newRunCommand())
	if topLevel {
		root.AddCommand(s.newShellCommand())
	}
}

// start loads configuration, builds the logger and the fleet, and applies
// the seed manifest. It runs once per session.
func (s *Session) start() error {
	if s.fleet != nil {
		return nil
	}

	cfg, err := config.Load(s.flags.configPath)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "failed to load configuration", err)
	}
	log, err := logging.New(cfg.Log, s.flags.verbose, s.errOut)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput, "failed to set up logging", err)
	}

	s.cfg = cfg
	s.log = log
	s.hazards = hazard.NewRecorder(cfg.Hazard.History)

	sinks := hazard.Multi{s.hazards, hazard.Func(s.printHazard)}
	if cfg.Hazard.Log {
		sinks = append(sinks, hazard.NewLogNotifier(log))
	}
	s.fleet = fleet.New(fleet.WithLogger(log), fleet.WithNotifier(sinks))
	s.VerboseLog("Started fleet %s", s.fleet.ID())

	path := s.flags.manifestPath
	if path == "" {
		path = cfg.Manifest
	}
	if path == "" {
		return nil
	}
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	res, err := manifest.Apply(s.fleet, m)
	if err != nil {
		return model.WrapCLIError(model.ExitCodeFor(err), fmt.Sprintf("failed to apply manifest %s", path), err)
	}
	s.VerboseLog("Seeded %d vessel(s) and %d container(s) from %s", len(res.Vessels), len(res.Containers), path)
	return nil
}

// printHazard shows hazard events inline in text mode. JSON consumers read
// them through the hazards command.
func (s *Session) printHazard(ev hazard.Event) {
	if s.IsJSONOutput() {
		return
	}
	fmt.Fprintln(s.errOut, ev.String())
}

// Execute runs the root command and exits the process with the code that
// matches the outcome. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(run(rootCmd))
}

// run executes rootCmd and returns the exit code. Errors are printed to the
// command's error stream.
func run(rootCmd *cobra.Command) int {
	err := rootCmd.Execute()
	if err == nil {
		return int(model.ExitSuccess)
	}
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("json")
	printError(rootCmd.ErrOrStderr(), jsonOut, err)
	return int(model.ExitCodeFor(err))
}

// printError outputs an error in the appropriate format (JSON or text).
// CLIErrors are shown as their message plus the underlying detail.
func printError(w io.Writer, jsonOut bool, err error) {
	message, detail := err.Error(), ""
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		if cliErr.Err != nil {
			detail = cliErr.Err.Error()
		}
	}

	if jsonOut {
		errObj := map[string]any{
			"message": message,
			"code":    int(model.ExitCodeFor(err)),
		}
		if detail != "" {
			errObj["detail"] = detail
		}
		// stderr even in JSON mode, since stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(map[string]any{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if detail != "" {
		fmt.Fprintf(w, "Error: %s: %s\n", message, detail)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func (s *Session) VerboseLog(format string, args ...any) {
	if s.flags.verbose {
		fmt.Fprintf(s.errOut, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func (s *Session) IsJSONOutput() bool {
	return s.flags.json
}

// writeJSON prints v as indented JSON on the output stream.
func (s *Session) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(s.out, string(data))
	return nil
}

// printf writes human-readable output.
func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
