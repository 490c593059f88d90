// Package categorize assigns each transaction a category from a closed
// allow-list. Rules are data, not code: an ordered keyword list evaluated
// first-match-wins, loadable from YAML and extendable without touching
// parsing logic.
package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Other is the deterministic fallback category.
const Other = "Other"

// Rule maps a description keyword to a category. Rules run in declaration
// order; the first match wins.
type Rule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// Categorizer matches descriptions against an ordered rule set.
type Categorizer struct {
	rules   []Rule
	allowed map[string]bool
}

// New builds a Categorizer from rules and the category allow-list. Rules
// naming a category outside the allow-list are rejected: the categorizer
// must never be able to emit one.
func New(rules []Rule, allowList []string) (*Categorizer, error) {
	allowed := make(map[string]bool, len(allowList)+1)
	for _, c := range allowList {
		allowed[c] = true
	}
	allowed[Other] = true

	for _, r := range rules {
		if !allowed[r.Category] {
			return nil, fmt.Errorf("rule %q names category %q outside the allow-list", r.Keyword, r.Category)
		}
	}
	return &Categorizer{rules: rules, allowed: allowed}, nil
}

// Default returns a Categorizer with the built-in rules and allow-list.
func Default() *Categorizer {
	c, err := New(DefaultRules(), DefaultAllowList())
	if err != nil {
		panic("built-in rules inconsistent with allow-list: " + err.Error())
	}
	return c
}

// Categorize returns the category for a description: first matching rule,
// else Other.
func (c *Categorizer) Categorize(description string) string {
	d := strings.ToLower(description)
	for _, r := range c.rules {
		if strings.Contains(d, strings.ToLower(r.Keyword)) {
			return r.Category
		}
	}
	return Other
}

// Resolve keeps a source-file category when it is already a member of the
// allow-list, otherwise derives one from the description. Anything outside
// the allow-list is discarded, never passed downstream.
func (c *Categorizer) Resolve(rawCategory, description string) string {
	raw := strings.TrimSpace(rawCategory)
	if c.allowed[raw] {
		return raw
	}
	return c.Categorize(description)
}

// Allowed reports allow-list membership.
func (c *Categorizer) Allowed(category string) bool {
	return c.allowed[category]
}

// AllowList returns the allow-list in stable order (built-ins first).
func (c *Categorizer) AllowList() []string {
	out := make([]string, 0, len(c.allowed))
	for _, name := range DefaultAllowList() {
		if c.allowed[name] {
			out = append(out, name)
		}
	}
	for name := range c.allowed {
		if !contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// rulesFile is the on-disk shape of a rule set.
type rulesFile struct {
	Categories []string `yaml:"categories,omitempty"`
	Rules      []Rule   `yaml:"rules"`
}

// LoadRules reads a YAML rule file. An empty categories list keeps the
// built-in allow-list.
func LoadRules(path string) (*Categorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	allowList := rf.Categories
	if len(allowList) == 0 {
		allowList = DefaultAllowList()
	}
	return New(rf.Rules, allowList)
}

// SaveRules writes a rule set to a YAML file.
func SaveRules(path string, c *Categorizer) error {
	data, err := yaml.Marshal(rulesFile{Categories: c.AllowList(), Rules: c.rules})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
