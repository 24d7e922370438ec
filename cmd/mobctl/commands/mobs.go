package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMobsCommand lists the catalog with member counts.
func NewMobsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mobs",
		Short: "List mob categories and their member counts",
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

			catalog := cfg.EngineOptions().Catalog
			if err := store.InitCatalog(cmd.Context(), catalog); err != nil {
				return err
			}
			stats, err := store.ReadAllStats(cmd.Context())
			if err != nil {
				return err
			}

			for _, cat := range catalog {
				fmt.Printf("%-20s %-22s members=%d\n",
					cat.ID, cat.DisplayName, stats[cat.ID].MemberCount)
			}
			return nil
		},
	}
}
