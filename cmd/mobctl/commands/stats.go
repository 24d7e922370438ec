package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand shows stats for one mob, or the popular campaign
// tags when no mob id is given.
func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [mob-id]",
		Short: "Show category statistics or popular campaign tags",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Stats for one mob
  mobctl stats dance_milk_mob

  # Popular campaign hashtags
  mobctl stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				stats, err := store.ReadStats(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(stats)
			}

			tags, err := store.PopularTags(cmd.Context(), 10)
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Println("no campaign tags recorded yet")
				return nil
			}
			for _, tc := range tags {
				fmt.Printf("%-24s %d\n", tc.Tag, tc.Count)
			}
			return nil
		},
	}
	return cmd
}
