package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCommand compares cached member counts against the
// assignment log and optionally repairs them.
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check cached stats against the assignment log",
		Example: `  # Report drift without touching the store
  mobctl verify

  # Recompute stats from the assignment log
  mobctl verify --fix`,
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

			drifts, err := store.CheckDrift(cmd.Context())
			if err != nil {
				return err
			}
			if len(drifts) == 0 {
				fmt.Println("stats are consistent with the assignment log")
				return nil
			}
			for _, d := range drifts {
				fmt.Printf("%-20s cached=%d logged=%d\n",
					d.CategoryID, d.CachedCount, d.LoggedCount)
			}

			fix, _ := cmd.Flags().GetBool("fix")
			if !fix {
				return fmt.Errorf("%d categories drifted: rerun with --fix to repair", len(drifts))
			}
			if err := store.RecomputeStats(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("stats recomputed from the assignment log")
			return nil
		},
	}
	cmd.Flags().Bool("fix", false, "recompute cached stats from the assignment log")
	return cmd
}
