package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the mobctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mobctl",
		Short: "Milk Mob campaign validation and classification engine",
		Long: `mobctl runs the Milk Mob campaign engine: it validates video
submissions against the campaign policy and classifies valid ones into
thematic mobs with persistent population statistics.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "milkmob.yaml", "path to the configuration file")

	root.AddCommand(
		NewServeCommand(),
		NewSubmitCommand(),
		NewMobsCommand(),
		NewStatsCommand(),
		NewVerifyCommand(),
	)
	return root
}
