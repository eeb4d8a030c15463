package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.toml")
	content := `[battle]
grid_width = 30

[ai]
decision_timeout = "500ms"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Battle.GridWidth != 30 {
		t.Fatalf("explicit value not applied, got %d", cfg.Battle.GridWidth)
	}
	if cfg.Battle.GridHeight != 20 {
		t.Fatalf("missing key must keep its default, got %d", cfg.Battle.GridHeight)
	}
	if cfg.AI.DecisionTimeout != 500*time.Millisecond {
		t.Fatalf("duration parse failed, got %v", cfg.AI.DecisionTimeout)
	}
	if cfg.Session.MinPlayers != 2 {
		t.Fatalf("session defaults missing, got %d", cfg.Session.MinPlayers)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatalf("start time must be stamped at load")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for a missing config file")
	}
}
