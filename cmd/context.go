package cmd

import (
	"fmt"

	"github.com/masmgr/msgfix-go/config"
	gitpkg "github.com/masmgr/msgfix-go/internal/git"
	"github.com/masmgr/msgfix-go/internal/rewrite"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all rewrite commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Repo     *gitpkg.Repository
	Table    *rewrite.Table
}

// NewCommandContext creates a context from CLI flags. It performs
// configuration loading, rule-table validation, and repository
// opening. The graph itself is loaded on demand so that precondition
// failures surface as early as possible.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	repoPath := c.String("repo")
	if c.NArg() > 0 {
		repoPath = c.Args().Get(0)
	}
	if repoPath == "" {
		repoPath = "."
	}

	table, err := buildRuleTable(cfg)
	if err != nil {
		return nil, err
	}

	repo, err := gitpkg.Open(gitpkg.Options{
		RepoPath:     repoPath,
		Include:      cfg.Refs.Include,
		Exclude:      cfg.Refs.Exclude,
		BackupPrefix: cfg.Backup.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid Git repository - please run from or specify the full path to the root of the project: %w", err)
	}

	return &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		Repo:     repo,
		Table:    table,
	}, nil
}

// buildRuleTable validates the configured rules into a table.
func buildRuleTable(cfg *config.Config) (*rewrite.Table, error) {
	rules := make([]rewrite.Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		rule, err := rewrite.NewRule(rc.Commit, rc.Message)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rewrite.NewTable(rules)
}
