package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_HistoricalRules(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Rules) != 2 {
		t.Fatalf("Expected 2 default rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Commit != "0562473" {
		t.Errorf("First rule commit = %q", cfg.Rules[0].Commit)
	}
	if cfg.Rules[0].Message != "Initial commit: NiceHash automation mining bot" {
		t.Errorf("First rule message = %q", cfg.Rules[0].Message)
	}
	if cfg.Rules[1].Commit != "975de02" {
		t.Errorf("Second rule commit = %q", cfg.Rules[1].Commit)
	}
	if cfg.Rules[1].Message != "feat: Add enhanced features - Auto recharge and smart speed limiting" {
		t.Errorf("Second rule message = %q", cfg.Rules[1].Message)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backup.Prefix != "backup" {
		t.Errorf("Backup prefix = %q", cfg.Backup.Prefix)
	}
	if len(cfg.Refs.Include) != 1 || cfg.Refs.Include[0] != "refs/heads/**" {
		t.Errorf("Refs include = %v", cfg.Refs.Include)
	}
	if cfg.Encoding.CommitEncoding != "utf-8" {
		t.Errorf("CommitEncoding = %q", cfg.Encoding.CommitEncoding)
	}
	if cfg.Verify.RecentCommits != 10 {
		t.Errorf("RecentCommits = %d", cfg.Verify.RecentCommits)
	}
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Rules) != 2 {
		t.Errorf("Expected default rules, got %d", len(cfg.Rules))
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msgfix.json")
	data := `{
		"rules": [{"commit": "abcdef0", "message": "custom"}],
		"backup": {"prefix": "pre-rewrite"}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Commit != "abcdef0" {
		t.Errorf("Rules = %v", cfg.Rules)
	}
	if cfg.Backup.Prefix != "pre-rewrite" {
		t.Errorf("Backup prefix = %q", cfg.Backup.Prefix)
	}
	// Untouched sections keep their defaults.
	if cfg.Encoding.QuotePath != "false" {
		t.Errorf("QuotePath = %q", cfg.Encoding.QuotePath)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	cfg := DefaultConfig()
	cfg.Backup.Prefix = "saved"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Backup.Prefix != "saved" {
		t.Errorf("Backup prefix = %q", loaded.Backup.Prefix)
	}
}
