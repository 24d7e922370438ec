package commands

import (
	"github.com/spf13/cobra"

	"github.com/dairylabs/milkmob/internal/server"
)

// NewServeCommand starts the HTTP adapter.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Example: `  # Serve with the default config
  mobctl serve

  # Override the listen address
  mobctl serve --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}

			eng, store, err := openEngine(cmd.Context(), cfg, "")
			if err != nil {
				return err
			}
			defer store.Close()

			return server.New(eng).ListenAndServe(cfg.Server.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides config)")
	return cmd
}
