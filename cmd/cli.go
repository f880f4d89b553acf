// SPDX-License-Identifier: MIT
//
// Package cmd implements the audiotrim command line.
package cmd

import (
	"context"
	"io"

	"audiotrim/internal/config"
	applog "audiotrim/internal/log"
	"audiotrim/pkg/build"

	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// Execute runs the command line with args (usually os.Args[1:]).
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	buildInfo := build.GetBuildFlags()
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Path to a YAML config file (default ./"+config.DefaultConfigName+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.AddCommand(
		newTrimCommand(a),
		newInfoCommand(a),
		newSelectCommand(a),
		newPlayCommand(a),
		newDevicesCommand(a),
		newPresetCommand(a),
		newServeCommand(a),
	)
	return rootCmd
}

func (a *app) loadConfig() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err := applog.Configure(cfg.LogLevel, cfg.Debug || a.verbose); err != nil {
		return err
	}
	a.cfg = cfg
	applog.Debugf("configuration loaded: %+v", *cfg)
	return nil
}
