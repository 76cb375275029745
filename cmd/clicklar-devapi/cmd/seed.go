package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect seed data",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the built-in demo seed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(demoSeed)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check [file]",
		Short: "Validate a seed file by loading it into a scratch store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			st, err := newStore(cmd.Context(), path, false)
			if err != nil {
				return err
			}

			categories, err := st.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			users, services, err := st.Counts(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"Seed OK: %d categories, %d users, %d services.\n",
				len(categories), users, services)
			return err
		},
	})

	return cmd
}
