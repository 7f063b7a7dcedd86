package engine

import "github.com/symptomlab/triagent/internal/model"

// Severity-keyed default guidance, used when the primary analyzer does not
// supply its own recommendations.

func adviceFor(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "Call emergency services immediately."
	case model.SeverityHigh:
		return "Seek medical attention promptly, within the next few hours."
	case model.SeverityLow:
		return "Monitor your symptoms and rest; see a doctor if they persist."
	default:
		return "Consult a healthcare professional about your symptoms."
	}
}

func recommendationsFor(severity model.Severity) []string {
	switch severity {
	case model.SeverityCritical:
		return []string{
			"Call emergency services now",
			"Do not drive yourself to the hospital",
			"Stay with someone until help arrives",
		}
	case model.SeverityHigh:
		return []string{
			"Contact your doctor or an urgent care clinic today",
			"Avoid strenuous activity until evaluated",
			"Note when symptoms started and how they have changed",
		}
	case model.SeverityLow:
		return []string{
			"Rest and stay hydrated",
			"Track your symptoms for a few days",
			"Use over-the-counter remedies as directed if needed",
		}
	default:
		return []string{
			"Schedule an appointment with your doctor",
			"Keep a record of your symptoms",
			"Seek care sooner if symptoms worsen",
		}
	}
}

func seekHelpFor(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "Immediately. This may be a medical emergency."
	case model.SeverityHigh:
		return "Within hours, or sooner if symptoms worsen."
	case model.SeverityLow:
		return "If symptoms persist beyond a week or noticeably worsen."
	default:
		return "If symptoms persist beyond a few days or worsen."
	}
}
