// Package cmd is the command line interface for managing map markers.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mapmarkers/markers"
	"mapmarkers/render"
	"mapmarkers/utils/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Creates the root command with every sub-command attached.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mapmarkers",
		Short: "Manage shared custom map markers",
		Long: `mapmarkers keeps custom markers for the overworld, nether and end maps
in one shared document, either a JSONBin bin or a local file.

Examples:
  # Add a marker at the given block coordinates
  mapmarkers add "Home" --x 120 --z -340 --category base

  # Show the nether markers that pass the current filter
  mapmarkers list --dimension nether

  # Hide villages
  mapmarkers filter set village=false`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&a.dimension, "dimension", "d", markers.OVERWORLD, "Dimension to work on: overworld|nether|end")
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Config file (default ./mapmarkers.{json,yaml,toml})")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newToggleCmd(a),
		newDeleteCmd(a),
		newAtCmd(a),
		newFilterCmd(a),
		newCategoriesCmd(a),
		newDumpCmd(a),
		newBotCmd(a),
	)

	return root
}

// Runs the CLI with the given args, releasing everything the command opened before returning.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

// Loads .env, runs the CLI and exits with status 1 on failure.
func Execute() {
	if err := config.LoadDotEnv(); err != nil {
		log.WithError(err).Warn("could not load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, render.Failure(err.Error()))
		os.Exit(1)
	}
}
