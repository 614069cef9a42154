// Package cmd provides the CLI commands for strbench.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/strbench/internal/config"
	sberrors "github.com/Aman-CERP/strbench/internal/errors"
	"github.com/Aman-CERP/strbench/internal/logging"
	"github.com/Aman-CERP/strbench/internal/profiling"
	"github.com/Aman-CERP/strbench/pkg/version"
)

// app holds state shared by every subcommand of one root command.
type app struct {
	debug     bool
	configDir string
	profile   profiling.Options

	logger         *slog.Logger
	session        *profiling.Session
	loggingCleanup func()
}

// NewRootCmd creates the root command for the strbench CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "strbench",
		Short: "Benchmark substring-search algorithms",
		Long: `strbench times Boyer-Moore, Knuth-Morris-Pratt and Rabin-Karp
substring search on real texts and ranks them.

For every text it searches once for a word taken from the text and once
for a pattern that does not occur, keeping the best of several runs.

Run 'strbench run' in a directory holding a data/ folder to get started.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("strbench version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging to ~/.strbench/logs/")
	cmd.PersistentFlags().StringVar(&a.configDir, "config-dir", ".", "Directory holding .strbench.yaml")
	cmd.PersistentFlags().StringVar(&a.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&a.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = a.start
	cmd.PersistentPostRunE = a.stop

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newPickCmd())
	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newInitCmd(a))
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	// PersistentPostRunE is skipped when RunE fails.
	for _, sub := range cmd.Commands() {
		a.stopOnError(sub)
	}

	return cmd
}

func (a *app) stopOnError(c *cobra.Command) {
	run := c.RunE
	if run == nil {
		return
	}
	c.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			a.log().Debug("command_failed",
				append([]any{"command", cmd.CommandPath()}, sberrors.LogAttrs(err)...)...)
			_ = a.stop(cmd, args)
		}
		return err
	}
}

// start sets up logging and profiling before any subcommand runs.
func (a *app) start(cmd *cobra.Command, _ []string) error {
	if a.debug {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		a.logger = logger
		a.loggingCleanup = cleanup
		slog.SetDefault(logger)
		logger.Info("debug_logging_enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version),
			slog.String("command", cmd.CommandPath()))
	} else {
		a.logger = logging.NewConsole(cmd.ErrOrStderr(), a.consoleLevel())
	}

	if a.profile.Enabled() {
		session, err := profiling.Start(a.profile)
		if err != nil {
			return err
		}
		a.session = session
	}

	return nil
}

// consoleLevel reads log_level from the project and user config. Config
// errors are left for the subcommand to report, so they fall back to warn.
func (a *app) consoleLevel() slog.Level {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return slog.LevelWarn
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// stop ends profiling, writes the heap profile and closes the log file.
func (a *app) stop(_ *cobra.Command, _ []string) error {
	var err error
	if a.session != nil {
		err = a.session.Stop()
		a.session = nil
	}

	if a.loggingCleanup != nil {
		a.logger.Info("debug_logging_stopped")
		a.loggingCleanup()
		a.loggingCleanup = nil
	}

	return err
}

// log returns the command logger, falling back to slog.Default before start.
func (a *app) log() *slog.Logger {
	if a.logger == nil {
		return slog.Default()
	}
	return a.logger
}

// Execute runs the root command until it finishes or the process is
// interrupted, printing any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprint(os.Stderr, sberrors.FormatForCLI(err))
	}
	return err
}

// Exit codes returned by ExitCode.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalid     = 2
	ExitFatal       = 3
	ExitInterrupted = 130
)

// ExitCode maps a command error to a process exit status. Bad config or
// input exits 2, fatal errors such as a missing text or disagreeing
// matchers exit 3.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case sberrors.IsFatal(err):
		return ExitFatal
	}
	switch sberrors.GetCategory(err) {
	case sberrors.CategoryConfig, sberrors.CategoryValidation:
		return ExitInvalid
	}
	return ExitFailure
}
