package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dairylabs/milkmob/internal/config"
	"github.com/dairylabs/milkmob/internal/engine"
	"github.com/dairylabs/milkmob/internal/provider"
	"github.com/dairylabs/milkmob/internal/state"
)

// loadConfig reads the config file named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// openStore opens the stats store from config. Caller closes.
func openStore(cfg *config.Config) (*state.Store, error) {
	store, err := state.NewStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", cfg.Store.Path, err)
	}
	return store, nil
}

// buildAnalyzer picks the provider backend: a canned analysis file when
// given (offline runs and tests), the REST client otherwise.
func buildAnalyzer(cfg *config.Config, analysisPath string) (provider.Analyzer, error) {
	if analysisPath != "" {
		data, err := os.ReadFile(analysisPath)
		if err != nil {
			return nil, fmt.Errorf("read analysis file: %w", err)
		}
		var analysis provider.Analysis
		if err := json.Unmarshal(data, &analysis); err != nil {
			return nil, fmt.Errorf("parse analysis file: %w", err)
		}
		return &provider.Fake{Default: &analysis}, nil
	}
	if cfg.Provider.BaseURL == "" {
		return nil, fmt.Errorf("no provider configured: set provider.base_url or pass --analysis")
	}
	return provider.NewRESTAnalyzer(cfg.Provider.BaseURL, cfg.ProviderAPIKey(), cfg.ProviderTimeout()), nil
}

// openEngine wires a full engine from config.
func openEngine(ctx context.Context, cfg *config.Config, analysisPath string) (*engine.Engine, *state.Store, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	analyzer, err := buildAnalyzer(cfg, analysisPath)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	eng, err := engine.New(ctx, cfg.EngineOptions(), analyzer, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return eng, store, nil
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
