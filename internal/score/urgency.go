package score

import (
	"strings"

	"github.com/symptomlab/triagent/internal/model"
)

// Urgency bounds.
const (
	MinUrgency = 1
	MaxUrgency = 10

	maxEmergencyAdjustment = 3
)

// severityBase maps the primary severity label to a base urgency.
var severityBase = map[model.Severity]int{
	model.SeverityLow:      2,
	model.SeverityMedium:   5,
	model.SeverityHigh:     7,
	model.SeverityCritical: 9,
}

// emergencyGroups are keyword synonym groups scanned in the raw text. Each
// group contributes at most once so repeated synonyms do not inflate the
// score; the total adjustment is capped at +3.
var emergencyGroups = [][]string{
	{"can't breathe", "cannot breathe", "difficulty breathing", "struggling to breathe", "gasping"},
	{"chest pain", "chest tightness", "chest pressure", "crushing pain"},
	{"unconscious", "passed out", "fainted", "unresponsive"},
	{"severe bleeding", "bleeding heavily", "won't stop bleeding", "blood loss"},
	{"slurred speech", "face drooping", "numbness on one side", "sudden weakness"},
	{"anaphylaxis", "throat swelling", "throat closing", "swollen tongue"},
}

// Urgency computes the 1-10 triage score from the primary severity, the
// extracted entities, and the raw request text. It is pure and deterministic.
func Urgency(entities []model.EntityRecord, severity model.Severity, fullText string) int {
	base, ok := severityBase[severity]
	if !ok {
		base = severityBase[model.SeverityMedium]
	}

	score := base + emergencyAdjustment(fullText)

	// Severity modifiers from the extractor nudge the score within the cap
	for _, ent := range entities {
		if ent.Category != model.EntitySeverityModifier {
			continue
		}
		switch ent.Text {
		case "severe", "unbearable", "worsening":
			score++
		case "mild":
			score--
		}
		break // one modifier adjustment at most
	}

	return clamp(score)
}

// emergencyAdjustment counts matched emergency keyword groups, +1 each,
// capped at maxEmergencyAdjustment.
func emergencyAdjustment(fullText string) int {
	lower := strings.ToLower(fullText)

	adj := 0
	for _, group := range emergencyGroups {
		for _, term := range group {
			if strings.Contains(lower, term) {
				adj++
				break
			}
		}
		if adj == maxEmergencyAdjustment {
			break
		}
	}

	return adj
}

func clamp(score int) int {
	if score < MinUrgency {
		return MinUrgency
	}
	if score > MaxUrgency {
		return MaxUrgency
	}
	return score
}
