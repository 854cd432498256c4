package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/hblaunch/internal/launcher"
	"github.com/psantana5/hblaunch/internal/logging"
	"github.com/psantana5/hblaunch/internal/report"
	"github.com/psantana5/hblaunch/internal/wrapper"
)

func launch(cmd *cobra.Command, f *flags, d *deps) error {
	cfg, err := launcher.LoadConfig(viper.New(), f.launcherConfig)
	if err != nil {
		return &ExitError{Code: launcher.ExitUsage, Message: "Error: " + err.Error()}
	}
	applyFlagOverrides(cmd, f, &cfg)
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: launcher.ExitUsage, Message: "Error: " + err.Error()}
	}
	switch f.outputFormat {
	case "text", "json", "yaml":
	default:
		return &ExitError{Code: launcher.ExitUsage, Message: fmt.Sprintf("Error: unknown output format %q (want text, json or yaml)", f.outputFormat)}
	}

	logger := logging.New(d.stderr, logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat), "hblaunch")

	opts := launcher.Options{
		Password: f.password,
		Filename: f.filename,
		Config:   f.config,
	}
	for _, name := range []string{"password", "file", "config"} {
		if fl := cmd.Flags().Lookup(name); fl.Changed && fl.Value.String() == "" {
			logger.Debug().Str("flag", "-"+fl.Shorthand).Msg("empty value, treated as not supplied")
		}
	}

	host, err := d.host()
	if err != nil {
		return &ExitError{Code: launcher.ExitUsage, Message: fmt.Sprintf("Error: inspect environment: %v", err)}
	}

	var metrics *report.Metrics
	if cfg.MetricsTextfile != "" && !f.dryRun {
		metrics = report.NewMetrics()
	}

	// plan is re-run once a prompted password is known; both runs reject the same way.
	plan := func() (*launcher.Invocation, error) {
		inv, err := launcher.Plan(cfg, host, opts)
		if err != nil {
			var le *launcher.Error
			if !errors.As(err, &le) {
				return nil, err
			}
			logger.Debug().Str("kind", string(le.Kind)).Int("exit", le.Code).Msg("launch rejected")
			finish(logger, metrics, cfg.MetricsTextfile, report.NewRejected(cfg.Entrypoint, le.Code, string(le.Kind), time.Now()))
			return nil, usageExit(le)
		}
		return inv, nil
	}

	inv, err := plan()
	if err != nil {
		return err
	}

	if opts.Password == "" && f.promptPassword && !f.dryRun {
		password, ok, err := d.prompt("Password: ")
		switch {
		case err != nil:
			return &ExitError{Code: launcher.ExitUsage, Message: fmt.Sprintf("Error: read password: %v", err)}
		case !ok:
			logger.Debug().Msg("stdin is not a terminal, not prompting for a password")
		case password != "":
			opts.Password = password
			if inv, err = plan(); err != nil {
				return err
			}
		}
	}

	if f.dryRun {
		return writePlan(d.stdout, inv, f.outputFormat)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info().Str("cmd", inv.String()).Msg("launching")

	result, runErr := d.run(ctx, inv, wrapper.Stdio{In: d.stdin, Out: d.stdout, Err: d.stderr}, logger)
	finish(logger, metrics, cfg.MetricsTextfile, result)

	if runErr != nil {
		code := result.ExitCode
		if code == 0 {
			code = 1
		}
		return &ExitError{Code: code, Message: "Error: " + runErr.Error()}
	}
	if result.ExitCode != 0 {
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}

// applyFlagOverrides lets explicit launcher flags win over settings.
func applyFlagOverrides(cmd *cobra.Command, f *flags, cfg *launcher.Config) {
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if cmd.Flags().Changed("metrics-textfile") {
		cfg.MetricsTextfile = f.metricsTextfile
	}
}

// finish logs the attempt and, when enabled, writes the metrics file. A
// metrics failure never changes the exit status.
func finish(logger zerolog.Logger, metrics *report.Metrics, path string, result *report.Result) {
	result.LogSummary(logger)
	if metrics == nil {
		return
	}
	metrics.Record(result)
	if err := metrics.WriteTextfile(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("write metrics textfile")
	}
}
