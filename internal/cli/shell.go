// shell.go implements the interactive shell and the script runner. Both
// execute command lines against the session, so every line sees the fleet
// as the previous lines left it.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/cargofleet/internal/model"
)

// shellPrompt is printed before each line in text mode.
const shellPrompt = "cargofleet> "

// executeLine runs one command line against the session. Output flags given
// on the line apply to that line only.
func (s *Session) executeLine(args []string) error {
	saved := s.flags
	defer func() { s.flags = saved }()

	cmd := s.lineCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// splitLine breaks a command line into arguments. Double or single quotes
// group words, so vessel names may contain spaces.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, model.NewCLIError(model.ExitInvalidInput, "unterminated quote")
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}

// isComment reports whether a trimmed line carries no command.
func isComment(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

func (s *Session) newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively against one fleet",
		Long: `Read commands from standard input, one per line, and run each against
the same fleet. Errors are reported and the shell carries on.

Type "help" for the command list and "exit" or "quit" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runShell(cmd.InOrStdin())
		},
	}
}

func (s *Session) runShell(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if !s.IsJSONOutput() {
			s.printf("%s", shellPrompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if isComment(line) {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		args, err := splitLine(line)
		if err == nil {
			err = s.executeLine(args)
		}
		if err != nil {
			printError(s.errOut, s.IsJSONOutput(), err)
		}
	}
	if !s.IsJSONOutput() {
		s.printf("\n")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// runFlags holds the flag values for the run command.
type runFlags struct {
	// keepGoing continues with the next line after a failed one.
	keepGoing bool
}

func (s *Session) newRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a file of commands against one fleet",
		Long: `Run the commands in a script file, one per line, against the same fleet.
Blank lines and lines starting with # are skipped. Use "-" to read the
script from standard input.

By default the first failing line stops the script and its exit code is
returned. With --keep-going every line runs and the script fails at the
end if any line failed.

Examples:
  cargofleet run voyage.txt
  cargofleet --manifest fleet.yaml run --keep-going voyage.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.runScript(cmd.InOrStdin(), args[0], flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.keepGoing, "keep-going", "k", false, "Continue after a failing line")
	return cmd
}

func (s *Session) runScript(stdin io.Reader, path string, flags *runFlags) error {
	var in io.Reader = stdin
	if path != "-" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve script path: %w", err)
		}
		if s.scripts[abs] {
			return model.NewCLIError(model.ExitInvalidInput, fmt.Sprintf("script %s is already running", path))
		}
		if s.scripts == nil {
			s.scripts = make(map[string]bool)
		}
		s.scripts[abs] = true
		defer delete(s.scripts, abs)

		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return model.WrapCLIError(model.ExitNotFound, fmt.Sprintf("script not found: %s", path), err)
			}
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	var (
		lineNo   int
		ran      int
		failures int
		firstErr error
	)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if isComment(line) {
			continue
		}
		ran++
		s.VerboseLog("%s:%d: %s", path, lineNo, line)

		args, err := splitLine(line)
		if err == nil {
			err = s.executeLine(args)
		}
		if err == nil {
			continue
		}

		failures++
		lineErr := model.WrapCLIError(model.ExitCodeFor(err), fmt.Sprintf("%s:%d", path, lineNo), err)
		if !flags.keepGoing {
			return lineErr
		}
		printError(s.errOut, s.IsJSONOutput(), lineErr)
		if firstErr == nil {
			firstErr = lineErr
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	if failures > 0 {
		return model.WrapCLIError(model.ExitCodeFor(firstErr),
			fmt.Sprintf("%d of %d command(s) failed", failures, ran), errors.Unwrap(firstErr))
	}
	s.VerboseLog("Ran %d command(s) from %s", ran, path)
	return nil
}
