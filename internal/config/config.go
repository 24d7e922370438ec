// Package config loads the engine configuration from YAML. A missing
// file yields the stock defaults, so the binary runs with no setup.
package config

// #region imports
import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dairylabs/milkmob/internal/engine"
	"github.com/dairylabs/milkmob/internal/mob"
	"github.com/dairylabs/milkmob/internal/signals"
	"github.com/dairylabs/milkmob/internal/validate"
)

// #endregion

// #region config

// Config is the on-disk configuration shape.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Provider ProviderConfig `yaml:"provider"`
	Policy   PolicyConfig   `yaml:"policy"`
	Rules    RulesConfig    `yaml:"rules"`
	Catalog  []MobConfig    `yaml:"catalog"`
	Tags     TagsConfig     `yaml:"tags"`
	Retry    RetryConfig    `yaml:"retry"`

	// IdempotentResubmit makes resubmitting a classified video a no-op
	// returning the original assignment instead of an error.
	IdempotentResubmit bool `yaml:"idempotent_resubmit"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"` // HTTP listen address, e.g. ":8080"
}

type StoreConfig struct {
	Path           string `yaml:"path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"` // env var holding the key
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type PolicyConfig struct {
	// Thresholds and Mandatory are keyed by criterion id, e.g.
	// "milk_object_presence".
	Thresholds      map[string]float32 `yaml:"thresholds"`
	Mandatory       []string           `yaml:"mandatory"`
	MandatoryWeight float32            `yaml:"mandatory_weight"`
	AdvisoryWeight  float32            `yaml:"advisory_weight"`
}

type RulesConfig struct {
	Bands         []RuleBandConfig `yaml:"bands"`
	RelevantTerms []string         `yaml:"relevant_terms"`
	HedgeBand     float32          `yaml:"hedge_band"`
}

type RuleBandConfig struct {
	Name       string   `yaml:"name"`
	Terms      []string `yaml:"terms"`
	Confidence float32  `yaml:"confidence"`
}

type MobConfig struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Keywords    map[string]float32 `yaml:"keywords"`
}

type TagsConfig struct {
	Campaign []string `yaml:"campaign"`
}

type RetryConfig struct {
	Attempts   uint64 `yaml:"attempts"`
	BaseMillis int    `yaml:"base_millis"`
}

// #endregion config

// #region load

// Load reads configuration from a YAML file. A missing file returns the
// default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Store:  StoreConfig{Path: "milkmob.db", TimeoutSeconds: 5},
		Provider: ProviderConfig{
			APIKeyEnv:      "VIDEO_PROVIDER_API_KEY",
			TimeoutSeconds: 30,
		},
		Retry: RetryConfig{Attempts: 3, BaseMillis: 50},
	}
}

// #endregion load

// #region engine-options

// EngineOptions converts the file shape into engine options. Sections
// left empty in the file keep the engine defaults.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()

	if len(c.Policy.Thresholds) > 0 || len(c.Policy.Mandatory) > 0 {
		opts.Policy = c.buildPolicy()
	}
	if len(c.Rules.Bands) > 0 || len(c.Rules.RelevantTerms) > 0 {
		opts.Rules = c.buildRules()
	}
	if len(c.Catalog) > 0 {
		opts.Catalog = c.buildCatalog()
	}
	if len(c.Tags.Campaign) > 0 {
		opts.CampaignTags = c.Tags.Campaign
	}
	if c.Store.TimeoutSeconds > 0 {
		opts.StoreTimeout = time.Duration(c.Store.TimeoutSeconds) * time.Second
	}
	if c.Retry.Attempts > 0 {
		opts.RetryAttempts = c.Retry.Attempts
	}
	if c.Retry.BaseMillis > 0 {
		opts.RetryBase = time.Duration(c.Retry.BaseMillis) * time.Millisecond
	}
	opts.IdempotentResubmit = c.IdempotentResubmit
	return opts
}

func (c *Config) buildPolicy() validate.Policy {
	policy := validate.DefaultPolicy()
	if c.Policy.MandatoryWeight > 0 {
		policy.MandatoryWeight = c.Policy.MandatoryWeight
	}
	if c.Policy.AdvisoryWeight > 0 {
		policy.AdvisoryWeight = c.Policy.AdvisoryWeight
	}
	if len(c.Policy.Mandatory) > 0 {
		mandatory := make(map[signals.CriterionKind]bool, len(c.Policy.Mandatory))
		for _, id := range c.Policy.Mandatory {
			mandatory[signals.CriterionKind(id)] = true
		}
		for kind, rule := range policy.Criteria {
			rule.Mandatory = mandatory[kind]
			policy.Criteria[kind] = rule
		}
	}
	for id, threshold := range c.Policy.Thresholds {
		kind := signals.CriterionKind(id)
		if rule, ok := policy.Criteria[kind]; ok {
			rule.Threshold = threshold
			policy.Criteria[kind] = rule
		}
	}
	return policy
}

func (c *Config) buildRules() signals.RuleTable {
	table := signals.RuleTable{
		RelevantTerms: c.Rules.RelevantTerms,
		HedgeBand:     c.Rules.HedgeBand,
	}
	if table.HedgeBand == 0 {
		table.HedgeBand = 0.5
	}
	for _, band := range c.Rules.Bands {
		table.Rules = append(table.Rules, signals.TextRule{
			Name:       band.Name,
			Terms:      band.Terms,
			Confidence: band.Confidence,
		})
	}
	return table
}

func (c *Config) buildCatalog() mob.Catalog {
	catalog := make(mob.Catalog, 0, len(c.Catalog))
	for _, m := range c.Catalog {
		catalog = append(catalog, mob.Category{
			ID:             m.ID,
			DisplayName:    m.Name,
			Description:    m.Description,
			KeywordWeights: m.Keywords,
		})
	}
	return catalog
}

// ProviderTimeout returns the provider HTTP timeout.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// ProviderAPIKey resolves the provider API key from the environment.
func (c *Config) ProviderAPIKey() string {
	if c.Provider.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Provider.APIKeyEnv)
}

// #endregion engine-options
