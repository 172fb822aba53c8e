package cmd

import (
	"context"
	"fmt"
	"strconv"

	"mapmarkers/markers"
	"mapmarkers/reconciler"
	"mapmarkers/render"
	"mapmarkers/utils"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the markers that pass the current filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, term, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}

			if err := term.Print(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d markers shown\n", len(r.Visible()), len(r.Markers()))
			return nil
		},
	}
}

// Flags shared by add and edit.
type inputFlags struct {
	x, z      float64
	category  string
	color     string
	completed bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.x, "x", 0, "X block coordinate")
	cmd.Flags().Float64Var(&f.z, "z", 0, "Z block coordinate")
	cmd.Flags().StringVar(&f.category, "category", "", "Category id, see 'mapmarkers categories'")
	cmd.Flags().StringVar(&f.color, "color", "", "Label color as #rrggbb (default: the category color)")
	cmd.Flags().BoolVar(&f.completed, "completed", false, "Mark the marker as completed")
}

// Applies only the flags the user actually passed onto in.
func (f *inputFlags) apply(cmd *cobra.Command, in *markers.Input) {
	flags := cmd.Flags()
	if flags.Changed("x") {
		in.X = f.x
	}
	if flags.Changed("z") {
		in.Z = f.z
	}
	if flags.Changed("category") {
		in.Category = f.category
	}
	if flags.Changed("color") {
		in.TextColor = f.color
	}
	if flags.Changed("completed") {
		in.Checked = &f.completed
	}
}

func newAddCmd(a *app) *cobra.Command {
	var f inputFlags

	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}

			in := markers.Input{Text: args[0]}
			f.apply(cmd, &in)

			m, err := r.Create(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", m.ID)
			return nil
		},
	}

	f.register(cmd)
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("z")

	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		f     inputFlags
		label string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a marker. Only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}

			existing, ok := r.Marker(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", markers.ErrMarkerNotFound, args[0])
			}

			in := markers.InputFrom(existing, r.Categories())
			if cmd.Flags().Changed("label") {
				in.Text = label
			}
			f.apply(cmd, &in)

			_, err = r.Edit(cmd.Context(), existing.ID, in)
			return err
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "New label")
	f.register(cmd)

	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a marker as completed, or as incomplete if it already is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}

			_, err = r.Toggle(cmd.Context(), args[0])
			return err
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a marker",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
			if err != nil {
				return err
			}

			return r.Delete(cmd.Context(), args[0])
		},
	}
}

func newAtCmd(a *app) *cobra.Command {
	var tolerance, radius float64

	cmd := &cobra.Command{
		Use:   "at <x> <z>",
		Short: "Show the context menu for a map location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid x coordinate: %w", err)
			}
			z, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid z coordinate: %w", err)
			}

			// clicking a drawn marker opens its own menu
			onClick := func(_ context.Context, _ reconciler.ClickEvent, m markers.Marker) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d, %d) %s\n", m.Text, m.X, m.Z, m.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "  edit      mapmarkers edit %s --label ...\n", m.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "  %-9s mapmarkers toggle %s\n", toggleLabel(m), m.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "  delete    mapmarkers delete %s\n", m.ID)
			}

			r, term, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), onClick)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "(%.0f, %.0f) in the %s\n", x, z, render.DimensionTitle(r.Dimension()))
			fmt.Fprintf(cmd.OutOrStdout(), "  add       mapmarkers add <label> --x %.0f --z %.0f\n", x, z)

			if !term.ClickAt(cmd.Context(), x, z, tolerance) {
				// Hidden markers are still found, so they can be toggled or deleted.
				if m, ok := r.FindMarkerAt(x, z, tolerance); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%d, %d) %s, hidden by the filter\n", m.Text, m.X, m.Z, m.ID)
					fmt.Fprintf(cmd.OutOrStdout(), "  %-9s mapmarkers toggle %s\n", toggleLabel(m), m.ID)
					fmt.Fprintf(cmd.OutOrStdout(), "  delete    mapmarkers delete %s\n", m.ID)
				}
			}

			if radius <= 0 {
				return nil
			}

			near := r.Nearby(x, z, radius)
			if len(near) == 0 {
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Nearby markers:\n")
			for _, m := range near {
				dist := utils.ManhattanDistance2D(x, z, float64(m.X), float64(m.Z))
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%d, %d) %s, %.0f blocks away\n", m.Text, m.X, m.Z, m.ID, dist)
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&tolerance, "tolerance", reconciler.DEFAULT_TOLERANCE, "How many blocks away a marker may be")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Also list every marker within this many blocks")
	return cmd
}

func toggleLabel(m markers.Marker) string {
	if m.IsChecked() {
		return "uncheck"
	}

	return "check"
}
