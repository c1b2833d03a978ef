package cmd

import (
	"testing"

	"github.com/masmgr/msgfix-go/config"
	"github.com/masmgr/msgfix-go/internal/output"
)

func TestParseRuleFlag(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		commit  string
		message string
		wantErr bool
	}{
		{"basic", "0562473=Initial commit", "0562473", "Initial commit", false},
		{"message contains equals", "975de02=a=b", "975de02", "a=b", false},
		{"missing separator", "0562473", "", "", true},
		{"empty message", "0562473=", "", "", true},
		{"empty id", "=message", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := parseRuleFlag(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseRuleFlag(%q) succeeded, expected error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRuleFlag(%q): %v", tt.raw, err)
			}
			if rule.Commit != tt.commit || rule.Message != tt.message {
				t.Errorf("parseRuleFlag(%q) = %+v", tt.raw, rule)
			}
		})
	}
}

func TestGetOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want output.OutputFormat
	}{
		{"json", output.FormatJSON},
		{"csv", output.FormatCSV},
		{"markdown", output.FormatMarkdown},
		{"md", output.FormatMarkdown},
		{"console", output.FormatConsole},
		{"", output.FormatConsole},
		{"bogus", output.FormatConsole},
	}

	for _, tt := range tests {
		if got := getOutputFormat(tt.in); got != tt.want {
			t.Errorf("getOutputFormat(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildRuleTable_Defaults(t *testing.T) {
	table, err := buildRuleTable(config.DefaultConfig())
	if err != nil {
		t.Fatalf("buildRuleTable: %v", err)
	}
	rules := table.Rules()
	if len(rules) != 2 {
		t.Fatalf("Expected 2 rules, got %d", len(rules))
	}
	if rules[0].Match != "0562473" || rules[1].Match != "975de02" {
		t.Errorf("Rules = %v", rules)
	}
}

func TestBuildRuleTable_InvalidRule(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules = append(cfg.Rules, config.RuleConfig{Commit: "xyz", Message: "bad"})

	if _, err := buildRuleTable(cfg); err == nil {
		t.Error("Expected error for non-hex rule identifier")
	}
}

func TestApp_HasCommands(t *testing.T) {
	app := App()

	want := map[string]bool{
		"rewrite": false, "plan": false, "verify": false, "rules": false, "encoding": false,
	}
	for _, cmd := range app.Commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Command %q not registered", name)
		}
	}
}
