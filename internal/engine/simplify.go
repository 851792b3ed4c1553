// Package engine turns raw requirement text into guided application
// sections: language simplification, segmentation, template synthesis,
// and difficulty scoring. Everything here is deterministic text
// composition over fixed rule tables.
package engine

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/simplify.yaml config/curriculum.yaml
var configFS embed.FS

type simplifyRule struct {
	Pattern string `yaml:"pattern"`
	Plain   string `yaml:"plain"`
}

type simplifyFile struct {
	Rules []simplifyRule `yaml:"rules"`
}

type compiledRule struct {
	re    *regexp.Regexp
	plain string
}

var (
	rulesOnce sync.Once
	rulesErr  error
	rules     []compiledRule
)

func loadRules() error {
	rulesOnce.Do(func() {
		data, err := configFS.ReadFile("config/simplify.yaml")
		if err != nil {
			rulesErr = fmt.Errorf("failed to read embedded simplify rules: %w", err)
			return
		}
		var f simplifyFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			rulesErr = fmt.Errorf("failed to parse simplify rules: %w", err)
			return
		}
		for _, r := range f.Rules {
			re, err := regexp.Compile("(?i)" + r.Pattern)
			if err != nil {
				rulesErr = fmt.Errorf("bad simplify pattern %q: %w", r.Pattern, err)
				return
			}
			rules = append(rules, compiledRule{re: re, plain: r.Plain})
		}
	})
	return rulesErr
}

// Simplify rewrites grant-speak into plain language by applying the rule
// cascade in priority order over the cumulative output. Each rule runs
// exactly once, replacing its first match; later rules see the text
// already rewritten by earlier ones. Unmatched text is untouched.
func Simplify(text string) string {
	if text == "" {
		return ""
	}
	if err := loadRules(); err != nil {
		return text
	}
	out := text
	for _, r := range rules {
		// Replace only the first occurrence, matching the cascade's
		// one-application-per-rule contract.
		if loc := r.re.FindStringIndex(out); loc != nil {
			out = out[:loc[0]] + r.plain + out[loc[1]:]
		}
	}
	return out
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
