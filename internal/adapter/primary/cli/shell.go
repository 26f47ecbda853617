package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"volume-control/internal/logging"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell that runs one adjustment per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "volume> ", "prompt string")
	return cmd
}

func runInteractiveShell(prompt string, out io.Writer) error {
	historyFile := filepath.Join(os.TempDir(), "volume-control-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	sessionConfig := cfgPath
	fmt.Fprintln(out, "Type adjustments like '--increase 5' or 'list'. 'help' for examples, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if quit := runShellLine(line, out, &sessionVerbosity, sessionConfig); quit {
			return nil
		}
	}
}

// runShellLine executes one shell line and reports whether the shell should exit.
func runShellLine(line string, out io.Writer, sessionVerbosity *int, sessionConfig string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "exit", "quit":
		fmt.Fprintln(out, "Bye!")
		return true
	case "help":
		printShellHelp(out)
		return false
	}

	tokens, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(out, "Parse error: %v\n", err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}
	switch tokens[0] {
	case "log":
		if err := handleShellLog(tokens[1:], sessionVerbosity, out); err != nil {
			fmt.Fprintf(out, "log: %v\n", err)
		}
		return false
	case "shell":
		fmt.Fprintln(out, "Already in the shell. Type an adjustment or 'exit'.")
		return false
	}

	if err := executeArgs(tokens, out, *sessionVerbosity, sessionConfig); err != nil {
		fmt.Fprintf(out, "command error: %v\n", err)
	}
	return false
}

func executeArgs(args []string, out io.Writer, sessionVerbosity int, sessionConfig string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	// Session settings apply unless the line overrides them.
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if !cmd.Flags().Changed("verbose") {
			verbosity = sessionVerbosity
		}
		if !cmd.Flags().Changed("config") {
			cfgPath = sessionConfig
		}
		logging.SetVerbosity(verbosity)
	}
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int, out io.Writer) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 3)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(*sessionVerbosity)
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  --increase 5                     # raise the playing device by 5%
  --decrease 5 --steps 5           # lower smoothly in 5 steps
  --mute-toggle                    # toggle mute
  --application --increase 10      # raise the playing application
  list                             # show devices
  list --application               # show applications
  log -vv                          # more logging
  log --show                       # current log level
  exit / quit                      # leave the shell`)
}
