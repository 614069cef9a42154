package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/strbench/internal/config"
	sberrors "github.com/Aman-CERP/strbench/internal/errors"
	"github.com/Aman-CERP/strbench/internal/output"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		force bool
		user  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write the default configuration to .strbench.yaml in --config-dir, or
to the user configuration file with --user.

An existing file is kept unless --force is given, in which case it is
backed up next to the original first.`,
		Example: `  # Create .strbench.yaml in the current directory
  strbench init

  # Overwrite it, keeping a timestamped backup
  strbench init --force

  # Create ~/.config/strbench/config.yaml
  strbench init --user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := filepath.Join(a.configDir, config.ProjectFileName)
			if user {
				path = config.GetUserConfigPath()
			}
			return runInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file after backing it up")
	cmd.Flags().BoolVar(&user, "user", false, "Write the user configuration instead of the project one")

	return cmd
}

func runInit(cmd *cobra.Command, path string, force bool) error {
	out := output.New(cmd.OutOrStdout())

	if _, err := os.Stat(path); err == nil && !force {
		return sberrors.ConfigError("config file already exists", nil).
			WithDetail("path", path).
			WithSuggestion("Use --force to overwrite it")
	}

	backup, err := config.BackupFile(path)
	if err != nil {
		return sberrors.ConfigError("failed to back up existing config", err).
			WithDetail("path", path)
	}

	if err := config.NewConfig().WriteYAML(path); err != nil {
		return sberrors.ConfigError("failed to write config", err).
			WithDetail("path", path)
	}

	if backup != "" {
		out.Statusf("📦", "Backed up previous config to %s", backup)
	}
	out.Successf("Wrote %s", path)
	return nil
}
