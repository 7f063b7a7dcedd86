package model

import (
	"fmt"
	"strings"
)

// Input bounds enforced before any analyzer runs.
const (
	MinSymptomsChars = 10
	MaxSymptomsChars = 1000
	MinSymptomsWords = 3

	MinAge = 1
	MaxAge = 120
)

// SymptomRequest is the inbound request for one analysis. It is created once
// per call and never mutated afterwards.
type SymptomRequest struct {
	Symptoms string `json:"symptoms"`
	Age      int    `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// ValidationError reports malformed input. It is the only analyzer-independent
// error surfaced to callers; everything downstream degrades instead of failing.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the request bounds. It must be called before the pipeline
// runs so that rejected requests never invoke an analyzer.
func (r SymptomRequest) Validate() error {
	text := strings.TrimSpace(r.Symptoms)

	if len(text) < MinSymptomsChars {
		return &ValidationError{
			Field:  "symptoms",
			Reason: fmt.Sprintf("description must be at least %d characters", MinSymptomsChars),
		}
	}
	if len(text) > MaxSymptomsChars {
		return &ValidationError{
			Field:  "symptoms",
			Reason: fmt.Sprintf("description must be at most %d characters", MaxSymptomsChars),
		}
	}
	if len(strings.Fields(text)) < MinSymptomsWords {
		return &ValidationError{
			Field:  "symptoms",
			Reason: fmt.Sprintf("description must contain at least %d words", MinSymptomsWords),
		}
	}
	if r.Age != 0 && (r.Age < MinAge || r.Age > MaxAge) {
		return &ValidationError{
			Field:  "age",
			Reason: fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge),
		}
	}

	return nil
}
