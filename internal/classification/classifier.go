// Package classification assigns category names to transaction descriptions
// using an ordered list of keyword rules.
package classification

import (
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// Rule maps a group of keywords to one category name.
type Rule struct {
	Name     string
	Category string
	Keywords []string
}

// Matches reports whether any keyword occurs in the lower-cased description.
func (r Rule) Matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Match is the outcome of classifying one description.
// Rule is empty when the fallback category was used.
type Match struct {
	Rule     string
	Category string
}

// Classifier evaluates rules top to bottom; the first match wins.
type Classifier struct {
	fallback string
	rules    []Rule
}

// NewClassifier creates a classifier over rules. Keywords are lower-cased
// once here so that matching is case-insensitive.
func NewClassifier(rules []Rule) *Classifier {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		normalized[i] = Rule{Name: r.Name, Category: r.Category, Keywords: kws}
	}
	return &Classifier{rules: normalized, fallback: model.UncategorizedName}
}

// NewDefaultClassifier creates a classifier over DefaultRules.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules())
}

// Classify returns the category for description.
func (c *Classifier) Classify(description string) Match {
	lowered := strings.ToLower(description)
	for _, r := range c.rules {
		if r.Matches(lowered) {
			return Match{Rule: r.Name, Category: r.Category}
		}
	}
	return Match{Category: c.fallback}
}

// Rules returns a copy of the rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
