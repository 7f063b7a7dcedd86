package extract

import (
	"context"
	"sort"
	"strings"

	"github.com/symptomlab/triagent/internal/model"
)

// Extractor recognizes medical terms in free text using a category lexicon.
// It is the local, offline entity-extraction capability: deterministic,
// no network calls.
type Extractor struct {
	lexicon Lexicon
}

// NewExtractor creates an extractor with the built-in lexicon.
func NewExtractor() *Extractor {
	return &Extractor{lexicon: DefaultLexicon()}
}

// NewExtractorWithLexicon creates an extractor with a custom lexicon,
// e.g. one loaded from a YAML file.
func NewExtractorWithLexicon(lex Lexicon) *Extractor {
	return &Extractor{lexicon: lex}
}

// Name identifies the analyzer in ModelAnalysis records.
func (e *Extractor) Name() string {
	return "lexicon-extractor"
}

// Extract returns the recognized entities in the text. Matching is
// case-insensitive; multi-word terms match as substrings, single words match
// on word boundaries to avoid hits inside unrelated words ("ear" in "heart").
// Each term is reported at most once.
func (e *Extractor) Extract(ctx context.Context, text string) ([]model.EntityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lower := strings.ToLower(text)
	words := fieldsSet(lower)

	var entities []model.EntityRecord
	seen := make(map[string]bool)

	for _, cat := range e.lexicon.Categories {
		for _, term := range cat.Terms {
			if seen[term.Text] {
				continue
			}
			if !matches(lower, words, term.Text) {
				continue
			}
			seen[term.Text] = true
			entities = append(entities, model.EntityRecord{
				Text:       term.Text,
				Category:   cat.Category,
				Confidence: term.Confidence,
			})
		}
	}

	// Stable output regardless of lexicon declaration order
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Category != entities[j].Category {
			return entities[i].Category < entities[j].Category
		}
		return entities[i].Text < entities[j].Text
	})

	return entities, nil
}

func matches(lower string, words map[string]bool, term string) bool {
	if strings.ContainsRune(term, ' ') {
		return strings.Contains(lower, term)
	}
	return words[term]
}

// fieldsSet splits text into normalized words, stripping punctuation that
// commonly clings to symptom descriptions.
func fieldsSet(lower string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
	}) {
		set[w] = true
	}
	return set
}
