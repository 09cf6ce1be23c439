package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Push every initiative to the Meilisearch index",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		a, err := openApp(c)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Initiatives.Reindex(c.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "indexed %d initiative(s)\n", n)
		return nil
	},
}
