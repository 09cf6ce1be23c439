package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute [initiative-id]",
	Short: "Recompute cached image counters",
	Long:  "Recomputes images_count and primary_image_url from the image rows. Without an id every initiative is reconciled.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		a, err := openApp(c)
		if err != nil {
			return err
		}
		defer a.Close()
		out := c.OutOrStdout()

		if len(args) == 1 {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid initiative id %q", args[0])
			}
			res, err := a.Images.RecomputeCounters(c.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: images_count=%d changed=%t\n", res.InitiativeID, res.ImagesCount, res.Changed)
			return nil
		}

		repaired, err := a.Images.RecomputeAll(c.Context())
		fmt.Fprintf(out, "repaired %d initiative(s)\n", repaired)
		return err
	},
}
