package rules

import (
	"fmt"
	"os"

	"github.com/symptomlab/triagent/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadTable reads a custom category table from a YAML file. Category order in
// the file is preserved because it decides tie-breaks.
func LoadTable(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}

	var table struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}
	if len(table.Categories) == 0 {
		return nil, fmt.Errorf("rule table %s declares no categories", path)
	}

	return table.Categories, nil
}

// DefaultTable returns the built-in category table. Emergency patterns are
// declared first so they keep tie-breaks against broader categories.
func DefaultTable() []Category {
	return []Category{
		{
			Name:     "emergency",
			Severity: model.SeverityCritical,
			Advice:   "These symptoms can indicate a medical emergency. Call emergency services now.",
			Keywords: []Keyword{
				{Term: "can't breathe", Weight: 5},
				{Term: "cannot breathe", Weight: 5},
				{Term: "unconscious", Weight: 5},
				{Term: "severe bleeding", Weight: 5},
				{Term: "chest pain", Weight: 4},
				{Term: "stroke", Weight: 5},
				{Term: "seizure", Weight: 5},
				{Term: "anaphylaxis", Weight: 5},
				{Term: "overdose", Weight: 5},
			},
		},
		{
			Name:     "cardiac",
			Severity: model.SeverityHigh,
			Advice:   "Heart-related symptoms should be evaluated promptly by a medical professional.",
			Keywords: []Keyword{
				{Term: "palpitations", Weight: 3},
				{Term: "chest tightness", Weight: 3},
				{Term: "chest pressure", Weight: 3},
				{Term: "irregular heartbeat", Weight: 3},
				{Term: "racing heart", Weight: 2},
			},
		},
		{
			Name:     "respiratory",
			Severity: model.SeverityMedium,
			Advice:   "Respiratory symptoms often resolve on their own but should be watched for worsening.",
			Keywords: []Keyword{
				{Term: "cough", Weight: 2},
				{Term: "shortness of breath", Weight: 3},
				{Term: "wheezing", Weight: 2},
				{Term: "sore throat", Weight: 1},
				{Term: "congestion", Weight: 1},
				{Term: "runny nose", Weight: 1},
			},
		},
		{
			Name:     "neurological",
			Severity: model.SeverityMedium,
			Advice:   "Persistent or sudden neurological symptoms warrant a medical evaluation.",
			Keywords: []Keyword{
				{Term: "headache", Weight: 2},
				{Term: "numbness", Weight: 3},
				{Term: "dizziness", Weight: 2},
				{Term: "confusion", Weight: 3},
				{Term: "blurred vision", Weight: 2},
				{Term: "slurred speech", Weight: 3},
				{Term: "migraine", Weight: 2},
			},
		},
		{
			Name:     "gastrointestinal",
			Severity: model.SeverityMedium,
			Advice:   "Stay hydrated; seek care if symptoms persist beyond a couple of days.",
			Keywords: []Keyword{
				{Term: "nausea", Weight: 2},
				{Term: "vomiting", Weight: 2},
				{Term: "diarrhea", Weight: 2},
				{Term: "stomach pain", Weight: 2},
				{Term: "abdominal pain", Weight: 2},
				{Term: "constipation", Weight: 1},
			},
		},
		{
			Name:     "musculoskeletal",
			Severity: model.SeverityLow,
			Advice:   "Rest the affected area; see a doctor if pain is severe or mobility is limited.",
			Keywords: []Keyword{
				{Term: "back pain", Weight: 2},
				{Term: "joint pain", Weight: 2},
				{Term: "muscle ache", Weight: 1},
				{Term: "sprain", Weight: 2},
				{Term: "stiffness", Weight: 1},
			},
		},
		{
			Name:     "dermatological",
			Severity: model.SeverityLow,
			Advice:   "Most skin symptoms are benign; see a doctor for spreading or painful changes.",
			Keywords: []Keyword{
				{Term: "rash", Weight: 2},
				{Term: "itching", Weight: 1},
				{Term: "hives", Weight: 2},
				{Term: "blister", Weight: 1},
			},
		},
	}
}
