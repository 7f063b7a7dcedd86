package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity is the four-level triage label carried by every AnalysisResult.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// ParseSeverity maps a free-form label onto one of the four severities.
// Unknown labels default to Medium so the result invariant always holds.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "mild", "minor":
		return SeverityLow
	case "medium", "moderate":
		return SeverityMedium
	case "high", "severe", "serious":
		return SeverityHigh
	case "critical", "emergency", "life-threatening":
		return SeverityCritical
	default:
		return SeverityMedium
	}
}

// Disclaimer is attached to every result regardless of the path taken.
const Disclaimer = "This assessment is generated automatically and is not a " +
	"medical diagnosis. It cannot replace examination by a qualified " +
	"healthcare professional. If symptoms are severe or worsening, seek " +
	"medical care immediately."

// ModelAnalysis records one analyzer invocation, success or not. The list of
// all records for a request is append-only during the request lifetime and
// immutable afterwards.
type ModelAnalysis struct {
	Analyzer   string        `json:"analyzer"`
	Analysis   string        `json:"analysis,omitempty"`
	Confidence float64       `json:"confidence"` // 0-1
	Duration   time.Duration `json:"duration_ns"`
	Success    bool          `json:"success"`
	Error      string        `json:"error,omitempty"`
}

// AnalysisResult is the final artifact returned to the caller. It is built
// once per request and never persisted by this engine.
type AnalysisResult struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Condition       string   `json:"condition"`
	Severity        Severity `json:"severity"`
	Confidence      int      `json:"confidence"` // 0-100
	Advice          string   `json:"advice"`
	Recommendations []string `json:"recommendations"`
	WhenToSeekHelp  string   `json:"when_to_seek_help"`
	Disclaimer      string   `json:"disclaimer"`

	Entities     []string `json:"entities,omitempty"`
	UrgencyScore int      `json:"urgency_score"` // 1-10

	ModelAnalyses []ModelAnalysis `json:"model_analyses"`
	ModelsUsed    string          `json:"ai_models_used"`
}
