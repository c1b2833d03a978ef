package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/masmgr/msgfix-go/config"
	"github.com/masmgr/msgfix-go/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "msgfix",
		Usage:   "Commit-message history rewriter for Git repositories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			RewriteCmd(),
			PlanCmd(),
			VerifyCmd(),
			RulesCmd(),
			EncodingCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
		Action: legacyAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringSliceFlag{
			Name:  "ref",
			Usage: "Ref-name glob patterns to rewrite (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-ref",
			Usage: "Ref-name glob patterns to skip (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "rule",
			Usage: "Extra rewrite rule as <commit-id>=<message> (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:  "backup-prefix",
			Usage: "Ref namespace for pre-rewrite backups",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of rewritten commits to show",
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to configuration file",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults, applying CLI
// overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if refs := c.StringSlice("ref"); len(refs) > 0 {
		cfg.Refs.Include = refs
	}
	if excludes := c.StringSlice("exclude-ref"); len(excludes) > 0 {
		cfg.Refs.Exclude = excludes
	}
	if prefix := c.String("backup-prefix"); prefix != "" {
		cfg.Backup.Prefix = prefix
	}

	for _, raw := range c.StringSlice("rule") {
		rule, err := parseRuleFlag(raw)
		if err != nil {
			return nil, err
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	return cfg, nil
}

// parseRuleFlag parses a --rule flag value of the form <id>=<message>.
func parseRuleFlag(raw string) (config.RuleConfig, error) {
	idx := strings.Index(raw, "=")
	if idx <= 0 || idx == len(raw)-1 {
		return config.RuleConfig{}, fmt.Errorf("invalid rule %q (expected <commit-id>=<message>)", raw)
	}
	return config.RuleConfig{
		Commit:  strings.TrimSpace(raw[:idx]),
		Message: raw[idx+1:],
	}, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
	}
}

// legacyAction handles the default command behavior. A bare repository
// path argument runs a dry-run plan: the destructive rewrite always
// requires the explicit subcommand.
func legacyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return PlanCmd().Action(c)
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
