package rules

import (
	"strings"

	"github.com/symptomlab/triagent/internal/model"
)

// Classifier is the deterministic keyword matcher used as the low-cost
// fallback and cross-check signal. It has no external dependency and never
// fails, so it is always available as the last analyzer in the cascade.
type Classifier struct {
	categories []Category
}

// Category maps a condition group to weighted keywords and a severity guess.
type Category struct {
	Name     string         `yaml:"name"`
	Severity model.Severity `yaml:"severity"`
	Keywords []Keyword      `yaml:"keywords"`
	Advice   string         `yaml:"advice,omitempty"`
}

// Keyword is one matchable term with its cumulative weight contribution.
type Keyword struct {
	Term   string `yaml:"term"`
	Weight int    `yaml:"weight"`
}

// Classification is the classifier verdict for one request.
type Classification struct {
	Category        string
	Severity        model.Severity
	MatchedKeywords []string
	Weight          int
	Advice          string
}

// NewClassifier creates a classifier with the built-in category table.
func NewClassifier() *Classifier {
	return &Classifier{categories: DefaultTable()}
}

// NewClassifierWithTable creates a classifier with a custom category table,
// e.g. one loaded from YAML. Declaration order is significant: on equal
// cumulative weight the first-declared category wins.
func NewClassifierWithTable(categories []Category) *Classifier {
	return &Classifier{categories: categories}
}

// Name identifies the analyzer in ModelAnalysis records.
func (c *Classifier) Name() string {
	return "rule-classifier"
}

// Classify matches the text against every category and returns the one with
// the highest cumulative keyword weight. Matching is case-insensitive
// substring matching. Ties break by declaration order: the first-declared
// category keeps the verdict. When nothing matches, the general fallback
// category is returned with no keywords.
func (c *Classifier) Classify(text string) (Classification, error) {
	lower := strings.ToLower(text)

	best := Classification{
		Category: "general",
		Severity: model.SeverityMedium,
		Advice:   "Monitor your symptoms and consult a healthcare professional if they persist or worsen.",
	}

	for _, cat := range c.categories {
		weight := 0
		var matched []string
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, strings.ToLower(kw.Term)) {
				weight += kw.Weight
				matched = append(matched, kw.Term)
			}
		}
		// Strictly greater: earlier declarations win ties
		if weight > best.Weight {
			best = Classification{
				Category:        cat.Name,
				Severity:        cat.Severity,
				MatchedKeywords: matched,
				Weight:          weight,
				Advice:          cat.Advice,
			}
		}
	}

	if best.Advice == "" {
		best.Advice = "Monitor your symptoms and consult a healthcare professional if they persist or worsen."
	}

	return best, nil
}
