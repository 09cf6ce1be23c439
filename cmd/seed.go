package cmd

import (
	"github.com/spf13/cobra"

	"tamilvalam_backend/internals/seeds"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the configured admin user when missing",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		a, err := openApp(c)
		if err != nil {
			return err
		}
		defer a.Close()
		return seeds.Run(c.Context(), a)
	},
}
