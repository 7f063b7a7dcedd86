package extract

import (
	"fmt"
	"os"

	"github.com/symptomlab/triagent/internal/model"
	"gopkg.in/yaml.v3"
)

// Lexicon is the term table driving entity extraction. Categories are
// declared in order; extraction output is sorted so declaration order does
// not leak into results.
type Lexicon struct {
	Categories []LexiconCategory `yaml:"categories"`
}

// LexiconCategory groups terms under one entity category.
type LexiconCategory struct {
	Category model.EntityCategory `yaml:"category"`
	Terms    []Term               `yaml:"terms"`
}

// Term is a single recognizable span with its recognition confidence.
type Term struct {
	Text       string  `yaml:"text"`
	Confidence float64 `yaml:"confidence"`
}

// LoadLexicon reads a custom lexicon from a YAML file.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(lex.Categories) == 0 {
		return Lexicon{}, fmt.Errorf("lexicon %s declares no categories", path)
	}

	return lex, nil
}

// DefaultLexicon returns the built-in term table.
func DefaultLexicon() Lexicon {
	term := func(t string, c float64) Term { return Term{Text: t, Confidence: c} }

	return Lexicon{
		Categories: []LexiconCategory{
			{
				Category: model.EntitySymptom,
				Terms: []Term{
					term("headache", 0.95),
					term("fever", 0.95),
					term("cough", 0.95),
					term("nausea", 0.9),
					term("vomiting", 0.9),
					term("diarrhea", 0.9),
					term("dizziness", 0.9),
					term("fatigue", 0.85),
					term("pain", 0.8),
					term("rash", 0.9),
					term("swelling", 0.85),
					term("numbness", 0.9),
					term("shortness of breath", 0.95),
					term("chest pain", 0.95),
					term("bleeding", 0.9),
					term("palpitations", 0.9),
					term("chills", 0.85),
					term("sore throat", 0.9),
					term("runny nose", 0.85),
					term("cramps", 0.8),
				},
			},
			{
				Category: model.EntityBodyPart,
				Terms: []Term{
					term("head", 0.8),
					term("chest", 0.85),
					term("stomach", 0.85),
					term("abdomen", 0.85),
					term("back", 0.75),
					term("throat", 0.8),
					term("leg", 0.75),
					term("arm", 0.75),
					term("knee", 0.8),
					term("shoulder", 0.8),
					term("neck", 0.8),
					term("eye", 0.8),
					term("ear", 0.8),
					term("heart", 0.85),
					term("lungs", 0.85),
					term("skin", 0.75),
				},
			},
			{
				Category: model.EntitySeverityModifier,
				Terms: []Term{
					term("mild", 0.9),
					term("moderate", 0.9),
					term("severe", 0.95),
					term("intense", 0.9),
					term("unbearable", 0.95),
					term("sharp", 0.85),
					term("dull", 0.85),
					term("worsening", 0.9),
					term("constant", 0.85),
					term("intermittent", 0.85),
				},
			},
			{
				Category: model.EntityDurationModifier,
				Terms: []Term{
					term("hours", 0.8),
					term("days", 0.8),
					term("weeks", 0.8),
					term("months", 0.8),
					term("sudden", 0.9),
					term("suddenly", 0.9),
					term("chronic", 0.9),
					term("recurring", 0.85),
					term("since yesterday", 0.85),
					term("this morning", 0.8),
				},
			},
		},
	}
}
