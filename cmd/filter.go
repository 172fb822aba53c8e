package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"mapmarkers/filter"

	"github.com/spf13/cobra"
)

func newFilterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change which categories are visible",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the visibility of every category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
				if err != nil {
					return err
				}

				state := r.Filter().State()
				for _, c := range r.Categories() {
					mark := "hidden"
					if state[c.ID] {
						mark = "shown"
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-16s %s\n", c.ID, c.Name, mark)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "set <category=true|false>...",
			Short: "Change the visibility of some categories, keeping the rest",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
				if err != nil {
					return err
				}

				state := r.Filter().State()
				for _, arg := range args {
					id, value, ok := strings.Cut(arg, "=")
					if !ok {
						return fmt.Errorf("expected category=true|false, got %q", arg)
					}
					if _, known := r.Categories().Get(id); !known {
						return fmt.Errorf("unknown category %q", id)
					}

					visible, err := strconv.ParseBool(value)
					if err != nil {
						return fmt.Errorf("invalid visibility for %s: %w", id, err)
					}

					state[id] = visible
				}

				return r.Filter().Apply(state)
			},
		},
		&cobra.Command{
			Use:   "show-all",
			Short: "Make every category visible",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
				if err != nil {
					return err
				}

				return r.Filter().ShowAll()
			},
		},
		&cobra.Command{
			Use:   "hide-all",
			Short: "Hide every category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
				if err != nil {
					return err
				}

				return r.Filter().HideAll()
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the saved filter so everything is visible again",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r, _, err := a.reconciler(cmd.Context(), cmd.OutOrStdout(), nil)
				if err != nil {
					return err
				}

				if err := a.db.Filters().Delete(filter.Key(r.Dimension())); err != nil {
					return err
				}

				r.Filter().Load()
				r.RebuildLayer()

				return nil
			},
		},
	)

	return cmd
}
