package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/psantana5/hblaunch/internal/launcher"
	"github.com/psantana5/hblaunch/internal/report"
	"github.com/psantana5/hblaunch/internal/wrapper"
)

// ExitError carries the status the process should exit with. An empty
// Message means nothing is printed (the child already spoke for itself).
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// flags holds everything parsed from the command line.
type flags struct {
	password string
	filename string
	config   string

	launcherConfig  string
	logLevel        string
	logFormat       string
	metricsTextfile string
	outputFormat    string
	dryRun          bool
	promptPassword  bool
}

// deps are the side effects a launch needs. Tests swap them out.
type deps struct {
	host   func() (launcher.Host, error)
	run    func(ctx context.Context, inv *launcher.Invocation, stdio wrapper.Stdio, logger zerolog.Logger) (*report.Result, error)
	prompt func(label string) (password string, ok bool, err error)
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func defaultDeps() *deps {
	return &deps{
		host: launcher.CurrentHost,
		run:  wrapper.Run,
		prompt: func(label string) (string, bool, error) {
			return terminalPassword(os.Stdin, os.Stderr, label)
		},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func newRootCmd(d *deps) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "hblaunch [-p password] [-f strategy.yml|script.py] [-c config.yml]",
		Short: "Start Hummingbot from a source checkout",
		Long: `hblaunch checks that it is run from the Hummingbot root directory with the
hummingbot conda environment active, validates the strategy and config file
names, and starts bin/hummingbot_quickstart.py with the given options.

The exit status is the one Hummingbot exits with. Launcher errors use:
  1  bad option, missing entrypoint or inactive environment
  3  config file is not a .yml file
  4  strategy or script file is not a .yml or .py file

Example:
  hblaunch
  hblaunch -p "my password" -f conf_pure_mm_1.yml
  hblaunch -f simple_pmm.py -c conf_simple_pmm.yml
  hblaunch --dry-run --output yaml -f simple_pmm.py`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageExit(launcher.UsageError("Unexpected argument: %s", args[0]))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return launch(cmd, f, d)
		},
	}

	rootCmd.SetIn(d.stdin)
	rootCmd.SetOut(d.stdout)
	rootCmd.SetErr(d.stderr)

	// Forwarded to the entrypoint
	rootCmd.Flags().StringVarP(&f.password, "password", "p", "", "password passed to Hummingbot")
	rootCmd.Flags().StringVarP(&f.filename, "file", "f", "", "strategy (.yml) or script (.py) file to start")
	rootCmd.Flags().StringVarP(&f.config, "config", "c", "", "script config file (.yml)")

	// Launcher settings
	rootCmd.Flags().StringVar(&f.launcherConfig, "launcher-config", "", "launcher settings file (YAML)")
	rootCmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (default from settings: warn)")
	rootCmd.Flags().StringVar(&f.logFormat, "log-format", "", "log format: text or json (default from settings: text)")
	rootCmd.Flags().StringVar(&f.metricsTextfile, "metrics-textfile", "", "write run metrics to this .prom file")
	rootCmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "validate and print the command instead of running it")
	rootCmd.Flags().StringVar(&f.outputFormat, "output", "text", "dry-run output format: text, json or yaml")
	rootCmd.Flags().BoolVar(&f.promptPassword, "prompt-password", false, "ask for the password on the terminal when -p is not given")

	// No -h shorthand: every single-letter flag other than p, f and c is invalid.
	rootCmd.Flags().Bool("help", false, "help for hblaunch")

	rootCmd.Flags().SortFlags = false
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageExit(flagError(err))
	})

	return rootCmd
}

// Execute runs the launcher with the process arguments.
func Execute() error {
	return newRootCmd(defaultDeps()).Execute()
}

// flagError turns a pflag parse error into the launcher's usage messages.
func flagError(err error) *launcher.Error {
	// pflag reports an undefined -h as a help request rather than NotExistError.
	if errors.Is(err, pflag.ErrHelp) {
		return launcher.UsageError("Invalid option: -h")
	}
	var notExist *pflag.NotExistError
	if errors.As(err, &notExist) {
		return launcher.UsageError("Invalid option: %s", dashed(notExist.GetSpecifiedName(), notExist.GetSpecifiedShortnames()))
	}
	var valueRequired *pflag.ValueRequiredError
	if errors.As(err, &valueRequired) {
		return launcher.UsageError("Option %s requires an argument.", dashed(valueRequired.GetSpecifiedName(), valueRequired.GetSpecifiedShortnames()))
	}
	return launcher.UsageError("Invalid option: %v", err)
}

func dashed(name, shorthands string) string {
	if shorthands != "" {
		return "-" + name
	}
	return "--" + name
}

func usageExit(le *launcher.Error) *ExitError {
	return &ExitError{Code: le.Code, Message: le.Message}
}
