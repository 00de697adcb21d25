package diagnosis

import (
	"fmt"
	"strings"
)

// maxConditionsShown caps the "Possible Conditions" list.
const maxConditionsShown = 3

const (
	aiDisclaimer = "⚠️ This is an AI-generated preliminary assessment. Please consult a healthcare professional for accurate diagnosis and treatment."
	kbDisclaimer = "⚠️ This is a rule-based preliminary assessment. For AI-powered diagnosis, configure an AI provider API key. Always consult a healthcare professional for accurate diagnosis."
)

const generalCareAdvice = `**General Care Advice:**
• Get adequate rest and sleep (7-8 hours)
• Stay well hydrated (8-10 glasses of water daily)
• Maintain a balanced, nutritious diet
• Avoid stress and strenuous activities
• Monitor your symptoms`

const seeDoctorAdvice = `**When to See a Doctor:**
• If symptoms persist for more than 3-5 days
• If symptoms worsen significantly
• If you develop high fever (>102°F/39°C)
• If you experience difficulty breathing
• If you have severe pain or discomfort`

const matchedNote = "**Note:** This is a preliminary assessment based on common conditions. Please consult a healthcare professional for accurate diagnosis."

const unmatchedAdvice = `**General Recommendations:**
• Consult a healthcare professional for proper diagnosis
• Monitor your symptoms closely
• Maintain good hygiene and rest
• Stay hydrated

**When to See a Doctor Immediately:**
• Severe pain or discomfort
• High fever (>102°F/39°C)
• Difficulty breathing
• Chest pain
• Sudden weakness or numbness
• Severe headache or confusion

Your symptoms may require professional medical evaluation.`

func renderAssessment(symptoms string, a Assessment) string {
	if !a.Matched() {
		return renderUnmatched(symptoms)
	}

	conditions := a.Conditions
	if len(conditions) > maxConditionsShown {
		conditions = conditions[:maxConditionsShown]
	}

	var b strings.Builder
	b.WriteString("**Preliminary Assessment:**\n\n")
	b.WriteString("**Possible Conditions:**\n")
	b.WriteString(bullets(conditions))
	b.WriteString("\n\n**Recommended Medications:**\n")
	b.WriteString(bullets(a.Remedies))
	b.WriteString("\n\n")
	b.WriteString(generalCareAdvice)
	b.WriteString("\n\n")
	b.WriteString(seeDoctorAdvice)
	b.WriteString("\n\n")
	b.WriteString(matchedNote)
	return b.String()
}

func renderUnmatched(symptoms string) string {
	return fmt.Sprintf("**Unable to Match Specific Conditions**\n\nBased on your symptoms: \"%s\", I recommend:\n\n%s", symptoms, unmatchedAdvice)
}

func bullets(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n")
}
