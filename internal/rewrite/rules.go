package rewrite

import (
	"fmt"
	"strings"
)

// Rule maps an original commit identifier (full or abbreviated, at
// least 7 hex characters) to a literal replacement message.
type Rule struct {
	Match   string
	Message string
}

// MinMatchLength is the shortest accepted identifier prefix.
const MinMatchLength = 7

// NewRule validates and normalizes a rule. The identifier is lowered;
// the replacement message is taken verbatim.
func NewRule(match, message string) (Rule, error) {
	match = strings.ToLower(strings.TrimSpace(match))
	if len(match) < MinMatchLength {
		return Rule{}, fmt.Errorf("rule identifier %q is shorter than %d characters", match, MinMatchLength)
	}
	if !isHex(match) {
		return Rule{}, fmt.Errorf("rule identifier %q is not a hexadecimal commit ID", match)
	}
	if message == "" {
		return Rule{}, fmt.Errorf("rule for %q has an empty replacement message", match)
	}
	return Rule{Match: match, Message: message}, nil
}

// Matches reports whether the rule's identifier is a prefix of the
// given full commit ID.
func (r Rule) Matches(id string) bool {
	return strings.HasPrefix(strings.ToLower(id), r.Match)
}

// Table is an ordered set of rewrite rules.
type Table struct {
	rules []Rule
}

// NewTable builds a rule table, rejecting duplicate and overlapping
// identifier prefixes: two rules where one prefix extends the other
// could silently match the same commit.
func NewTable(rules []Rule) (*Table, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	for i, a := range rules {
		for _, b := range rules[i+1:] {
			if strings.HasPrefix(a.Match, b.Match) || strings.HasPrefix(b.Match, a.Match) {
				return nil, fmt.Errorf("%w: %q overlaps %q", ErrAmbiguousRule, a.Match, b.Match)
			}
		}
	}
	return &Table{rules: append([]Rule(nil), rules...)}, nil
}

// Rules returns the rules in declaration order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Lookup returns the rule whose identifier prefixes the given full
// commit ID, if any.
func (t *Table) Lookup(id string) (Rule, bool) {
	for _, r := range t.rules {
		if r.Matches(id) {
			return r, true
		}
	}
	return Rule{}, false
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
