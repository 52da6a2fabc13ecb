package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kebairia/catbackup/internal/config"
	"github.com/kebairia/catbackup/internal/logger"
	"github.com/spf13/cobra"
)

// ConfigFile is the path to the YAML configuration. Empty means defaults + env.
var ConfigFile string

// NewRootCmd returns the base command with every subcommand attached.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catbackup",
		Short: "Back up captioned cat pictures to a cloud disk",
		Long: `catbackup requests one cat picture per caption from the image API,
uploads each picture to a folder on the cloud disk and records the
uploaded files in a cat_backup_info_<timestamp>.json file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.PersistentFlags().
		StringVarP(&ConfigFile, "config", "c", "", "path to YAML config file")

	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newShowCmd())
	return rootCmd
}

// Execute runs the root command with the process stdio.
func Execute() {
	rootCmd := NewRootCmd(os.Stdin, os.Stdout, os.Stderr)
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and starts logging to console and file.
func setup() (config.Config, logger.Logger, error) {
	var cfg config.Config
	if err := cfg.Load(ConfigFile); err != nil {
		return cfg, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.Init(logger.Options{
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Console: true,
	})
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
