package cmd

import (
	"fmt"

	"mapmarkers/notify"
	"mapmarkers/utils"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the marker categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}

			for _, c := range a.categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-16s %s\n", c.ID, c.Name, c.DefaultColor)
			}

			return nil
		},
	}
}

func newDumpCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the stored marker document for debugging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(notify.LogNotifier{}); err != nil {
				return err
			}

			doc := a.api.LoadAll(cmd.Context())
			if all {
				fmt.Fprintln(cmd.OutOrStdout(), utils.Prettify(doc))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), utils.Prettify(doc[a.dimension]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Dump every dimension")
	return cmd
}
