package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dairylabs/milkmob/internal/signals"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Store.Path != "milkmob.db" {
		t.Errorf("expected default store path, got %q", cfg.Store.Path)
	}

	opts := cfg.EngineOptions()
	if len(opts.Catalog) == 0 {
		t.Error("defaults must include the stock catalog")
	}
	if opts.StoreTimeout != 5*time.Second {
		t.Errorf("expected 5s store timeout, got %v", opts.StoreTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "milkmob.yaml")
	doc := `
server:
  addr: ":9090"
store:
  path: /tmp/test.db
  timeout_seconds: 2
policy:
  thresholds:
    milk_object_presence: 0.7
  mandatory: [milk_object_presence]
catalog:
  - id: solo_mob
    name: Solo Mob
    keywords:
      solo: 2
retry:
  attempts: 5
  base_millis: 100
idempotent_resubmit: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr override lost: %q", cfg.Server.Addr)
	}

	opts := cfg.EngineOptions()
	rule := opts.Policy.Criteria[signals.CriterionMilkObject]
	if rule.Threshold != 0.7 || !rule.Mandatory {
		t.Errorf("policy override lost: %+v", rule)
	}
	// Mandatory list replaces the default set entirely.
	if opts.Policy.Criteria[signals.CriterionDrinking].Mandatory {
		t.Error("drinking should be advisory after override")
	}
	if len(opts.Catalog) != 1 || opts.Catalog[0].ID != "solo_mob" {
		t.Errorf("catalog override lost: %+v", opts.Catalog)
	}
	if opts.RetryAttempts != 5 || opts.RetryBase != 100*time.Millisecond {
		t.Errorf("retry override lost: %d %v", opts.RetryAttempts, opts.RetryBase)
	}
	if !opts.IdempotentResubmit {
		t.Error("idempotent_resubmit override lost")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
