package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/masmgr/msgfix-go/config"
	"github.com/urfave/cli/v2"
)

// RulesCmd creates the rules command, printing the effective rule
// table after merging defaults, config file, and --rule flags.
func RulesCmd() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "Show the effective rewrite rule table",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "write-config",
				Usage: "Write the effective configuration to the given path",
			},
		),
		Action: rulesAction,
	}
}

func rulesAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Validate even when only listing, so a broken config fails here
	// rather than mid-rewrite.
	table, err := buildRuleTable(cfg)
	if err != nil {
		return err
	}

	color.Green("Rewrite rules")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Commit\tReplacement message")
	for _, rule := range table.Rules() {
		fmt.Fprintf(tw, "%s\t%s\n", rule.Match, rule.Message)
	}
	tw.Flush()

	if path := c.String("write-config"); path != "" {
		if err := config.SaveConfig(cfg, path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		color.Green("Wrote configuration to %s", path)
	}

	return nil
}
