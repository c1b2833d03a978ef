package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the root configuration structure.
type Config struct {
	Rules    []RuleConfig   `json:"rules"`
	Refs     RefConfig      `json:"refs"`
	Backup   BackupConfig   `json:"backup"`
	Encoding EncodingConfig `json:"encoding"`
	Verify   VerifyConfig   `json:"verify"`
}

// RuleConfig is one rewrite rule: an original commit identifier
// (7+ hex characters, abbreviated prefixes allowed) and the literal
// message that replaces the original.
type RuleConfig struct {
	Commit  string `json:"commit"`
	Message string `json:"message"`
}

// RefConfig selects which refs are rewritten.
type RefConfig struct {
	Include []string `json:"include"` // Ref-name glob patterns, default refs/heads/**
	Exclude []string `json:"exclude"`
}

// BackupConfig controls where pre-rewrite tips are preserved.
type BackupConfig struct {
	Prefix string `json:"prefix"` // Refs are saved under refs/<prefix>/<short-name>
}

// EncodingConfig holds the side-channel git config adjustments. They
// are independent of the rewrite itself and applied only by the
// encoding command.
type EncodingConfig struct {
	QuotePath         string `json:"quotePath"`
	CommitEncoding    string `json:"commitEncoding"`
	LogOutputEncoding string `json:"logOutputEncoding"`
	Editor            string `json:"editor"`
}

// VerifyConfig controls the post-rewrite verification output.
type VerifyConfig struct {
	RecentCommits int `json:"recentCommits"` // History lines shown for the manual check
}

// DefaultConfig returns a configuration with default values. The two
// default rules are the historical encoding-corruption fixes this tool
// was built for.
func DefaultConfig() *Config {
	return &Config{
		Rules: []RuleConfig{
			{
				Commit:  "0562473",
				Message: "Initial commit: NiceHash automation mining bot",
			},
			{
				Commit:  "975de02",
				Message: "feat: Add enhanced features - Auto recharge and smart speed limiting",
			},
		},
		Refs: RefConfig{
			Include: []string{"refs/heads/**"},
			Exclude: []string{},
		},
		Backup: BackupConfig{
			Prefix: "backup",
		},
		Encoding: EncodingConfig{
			QuotePath:         "false",
			CommitEncoding:    "utf-8",
			LogOutputEncoding: "utf-8",
			Editor:            "",
		},
		Verify: VerifyConfig{
			RecentCommits: 10,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{".msgfix.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".msgfix.json"))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, ".msgfix.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
