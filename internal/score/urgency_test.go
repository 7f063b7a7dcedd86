package score

import (
	"testing"

	"github.com/symptomlab/triagent/internal/model"
)

func TestUrgency_BaseScores(t *testing.T) {
	tests := []struct {
		severity model.Severity
		want     int
	}{
		{model.SeverityLow, 2},
		{model.SeverityMedium, 5},
		{model.SeverityHigh, 7},
		{model.SeverityCritical, 9},
	}

	for _, tt := range tests {
		got := Urgency(nil, tt.severity, "a plain description with no emergency terms")
		if got != tt.want {
			t.Errorf("Urgency(%s) = %d, want %d", tt.severity, got, tt.want)
		}
	}
}

func TestUrgency_UnknownSeverityDefaultsToMedium(t *testing.T) {
	got := Urgency(nil, model.Severity("Weird"), "nothing alarming here")
	if got != 5 {
		t.Errorf("expected Medium base 5 for unknown severity, got %d", got)
	}
}

func TestUrgency_EmergencyKeywords(t *testing.T) {
	// One emergency group matched: +1 over the base
	got := Urgency(nil, model.SeverityMedium, "sudden chest pain while resting")
	if got != 6 {
		t.Errorf("expected 6 (5 base + 1 emergency), got %d", got)
	}
}

func TestUrgency_SynonymsCountOnce(t *testing.T) {
	// Three synonyms of the same group must contribute once, not three times
	text := "chest pain with chest tightness and chest pressure"
	got := Urgency(nil, model.SeverityMedium, text)
	if got != 6 {
		t.Errorf("expected 6 (one group counted once), got %d", got)
	}
}

func TestUrgency_AdjustmentCapped(t *testing.T) {
	// Four distinct groups match, but the adjustment is capped at +3
	text := "chest pain, can't breathe, passed out briefly, bleeding heavily"
	got := Urgency(nil, model.SeverityLow, text)
	if got != 5 {
		t.Errorf("expected 5 (2 base + 3 capped), got %d", got)
	}
}

func TestUrgency_CriticalEmergencyClamps(t *testing.T) {
	text := "severe chest pain and shortness of breath"
	entities := []model.EntityRecord{
		{Text: "severe", Category: model.EntitySeverityModifier, Confidence: 0.95},
		{Text: "chest pain", Category: model.EntitySymptom, Confidence: 0.95},
	}

	got := Urgency(entities, model.SeverityCritical, text)
	if got < 9 {
		t.Errorf("expected urgency >= 9 for critical chest pain, got %d", got)
	}
	if got > MaxUrgency {
		t.Errorf("urgency %d exceeds maximum", got)
	}
}

func TestUrgency_MildModifierLowersScore(t *testing.T) {
	entities := []model.EntityRecord{
		{Text: "mild", Category: model.EntitySeverityModifier, Confidence: 0.9},
	}

	got := Urgency(entities, model.SeverityLow, "a mild headache for two days")
	if got != 1 {
		t.Errorf("expected 1 (2 base - 1 mild), got %d", got)
	}
}

func TestUrgency_AlwaysInRange(t *testing.T) {
	severities := []model.Severity{
		model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical,
	}
	texts := []string{
		"",
		"mild discomfort",
		"chest pain can't breathe unconscious severe bleeding slurred speech throat swelling",
	}

	for _, sev := range severities {
		for _, text := range texts {
			got := Urgency(nil, sev, text)
			if got < MinUrgency || got > MaxUrgency {
				t.Errorf("Urgency(%s, %q) = %d outside [%d, %d]", sev, text, got, MinUrgency, MaxUrgency)
			}
		}
	}
}

func TestUrgency_Deterministic(t *testing.T) {
	entities := []model.EntityRecord{
		{Text: "severe", Category: model.EntitySeverityModifier, Confidence: 0.95},
	}
	text := "severe headache with dizziness"

	first := Urgency(entities, model.SeverityHigh, text)
	for i := 0; i < 10; i++ {
		if got := Urgency(entities, model.SeverityHigh, text); got != first {
			t.Fatalf("run %d: got %d, first run %d", i, got, first)
		}
	}
}
