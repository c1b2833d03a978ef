// Package encoding applies the repository-local git config settings
// that keep non-ASCII commit messages readable: path quoting, commit
// and log output encodings, and the default editor. The writes are
// idempotent and independent of the history rewrite itself.
package encoding

import (
	gogit "github.com/go-git/go-git/v5"
)

// Settings holds the config values to write. Empty values are skipped.
type Settings struct {
	QuotePath         string
	CommitEncoding    string
	LogOutputEncoding string
	Editor            string
}

// Change records one applied config write.
type Change struct {
	Section string
	Key     string
	Value   string
}

// Apply writes the settings into the repository's local config and
// returns the list of changes made.
func Apply(repoPath string, s Settings) ([]Change, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, err
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, err
	}

	var changes []Change
	set := func(section, key, value string) {
		if value == "" {
			return
		}
		cfg.Raw.Section(section).SetOption(key, value)
		changes = append(changes, Change{Section: section, Key: key, Value: value})
	}

	set("core", "quotepath", s.QuotePath)
	set("i18n", "commitEncoding", s.CommitEncoding)
	set("i18n", "logOutputEncoding", s.LogOutputEncoding)
	set("core", "editor", s.Editor)

	if len(changes) == 0 {
		return nil, nil
	}

	if err := repo.SetConfig(cfg); err != nil {
		return nil, err
	}

	return changes, nil
}
