package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/symptomlab/triagent/internal/model"
)

func TestClassifier_Classify_Basic(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("I have a bad cough and a runny nose")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.Category != "respiratory" {
		t.Errorf("expected respiratory, got %s", result.Category)
	}
	if result.Severity != model.SeverityMedium {
		t.Errorf("expected Medium, got %s", result.Severity)
	}
	if len(result.MatchedKeywords) != 2 {
		t.Errorf("expected 2 matched keywords, got %v", result.MatchedKeywords)
	}
}

func TestClassifier_Classify_HighestWeightWins(t *testing.T) {
	c := NewClassifier()

	// "chest pain" (emergency, 4) outweighs "cough" (respiratory, 2)
	result, err := c.Classify("cough with chest pain")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.Category != "emergency" {
		t.Errorf("expected emergency, got %s", result.Category)
	}
	if result.Severity != model.SeverityCritical {
		t.Errorf("expected Critical, got %s", result.Severity)
	}
}

func TestClassifier_Classify_CaseInsensitive(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("SEVERE BLEEDING after a fall")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Category != "emergency" {
		t.Errorf("expected emergency, got %s", result.Category)
	}
}

func TestClassifier_Classify_TieBreakFirstDeclared(t *testing.T) {
	// Two categories with equal cumulative weight: the first-declared wins.
	table := []Category{
		{
			Name:     "alpha",
			Severity: model.SeverityHigh,
			Keywords: []Keyword{{Term: "throbbing", Weight: 2}},
		},
		{
			Name:     "beta",
			Severity: model.SeverityLow,
			Keywords: []Keyword{{Term: "pulsing", Weight: 2}},
		},
	}
	c := NewClassifierWithTable(table)

	for i := 0; i < 10; i++ {
		result, err := c.Classify("a throbbing and pulsing sensation")
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}
		if result.Category != "alpha" {
			t.Fatalf("run %d: tie resolved to %s, expected first-declared alpha", i, result.Category)
		}
	}
}

func TestClassifier_Classify_NoMatchFallsBackToGeneral(t *testing.T) {
	c := NewClassifier()

	result, err := c.Classify("I just feel a bit off today somehow")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.Category != "general" {
		t.Errorf("expected general, got %s", result.Category)
	}
	if result.Severity != model.SeverityMedium {
		t.Errorf("expected Medium fallback severity, got %s", result.Severity)
	}
	if len(result.MatchedKeywords) != 0 {
		t.Errorf("expected no matched keywords, got %v", result.MatchedKeywords)
	}
	if result.Advice == "" {
		t.Error("expected fallback advice to be set")
	}
}

func TestClassifier_Classify_Deterministic(t *testing.T) {
	c := NewClassifier()
	text := "headache with dizziness and nausea"

	first, err := c.Classify(text)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := c.Classify(text)
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}
		if again.Category != first.Category || again.Weight != first.Weight {
			t.Errorf("run %d: verdict changed: %+v vs %+v", i, again, first)
		}
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	content := `categories:
  - name: ocular
    severity: Medium
    keywords:
      - term: red eye
        weight: 2
      - term: eye pain
        weight: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if len(table) != 1 || table[0].Name != "ocular" {
		t.Fatalf("unexpected table: %+v", table)
	}

	c := NewClassifierWithTable(table)
	result, err := c.Classify("sudden eye pain on the left side")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if result.Category != "ocular" {
		t.Errorf("expected ocular, got %s", result.Category)
	}
}

func TestLoadTable_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("categories: []\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadTable(path); err == nil {
		t.Error("expected error for empty table")
	}
}
