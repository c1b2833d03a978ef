package cmd

import (
	"github.com/fatih/color"
	"github.com/masmgr/msgfix-go/internal/encoding"
	"github.com/urfave/cli/v2"
)

// EncodingCmd creates the encoding command. It applies the
// repository-local config settings that keep non-ASCII commit messages
// readable. These writes are idempotent and separate from the rewrite.
func EncodingCmd() *cli.Command {
	return &cli.Command{
		Name:      "encoding",
		Usage:     "Apply UTF-8 friendly git config settings to the repository",
		ArgsUsage: "[repository path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path to Git repository",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "editor",
				Usage: "Editor to set as core.editor (empty: leave unchanged)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to configuration file",
			},
		},
		Action: encodingAction,
	}
}

func encodingAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	repoPath := c.String("repo")
	if c.NArg() > 0 {
		repoPath = c.Args().Get(0)
	}

	settings := encoding.Settings{
		QuotePath:         cfg.Encoding.QuotePath,
		CommitEncoding:    cfg.Encoding.CommitEncoding,
		LogOutputEncoding: cfg.Encoding.LogOutputEncoding,
		Editor:            cfg.Encoding.Editor,
	}
	if editor := c.String("editor"); editor != "" {
		settings.Editor = editor
	}

	color.Green("Configuring encoding settings in %v", repoPath)
	changes, err := encoding.Apply(repoPath, settings)
	if err != nil {
		return err
	}

	for _, ch := range changes {
		color.Blue("\tset %s.%s = %s", ch.Section, ch.Key, ch.Value)
	}
	if len(changes) == 0 {
		color.Yellow("No settings to apply.")
	}

	return nil
}
