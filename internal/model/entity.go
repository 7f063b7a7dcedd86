package model

// EntityRecord is a recognized medical term extracted from the request text.
// Records are owned by the extractor result set; the orchestrator and the
// urgency scorer only read them.
type EntityRecord struct {
	Text       string         `json:"text"`
	Category   EntityCategory `json:"category"`
	Confidence float64        `json:"confidence"` // 0-1
}

// EntityCategory classifies an extracted span.
type EntityCategory string

const (
	EntitySymptom          EntityCategory = "symptom"
	EntityBodyPart         EntityCategory = "body_part"
	EntitySeverityModifier EntityCategory = "severity_modifier"
	EntityDurationModifier EntityCategory = "duration_modifier"
)
