package diagnosis

import "fmt"

const systemInstruction = "You are a helpful medical AI assistant providing preliminary health screening. Always remind users to consult healthcare professionals for serious concerns."

const userPromptTemplate = `You are a medical AI assistant for preliminary health screening.

Patient Information: %s
Symptoms: %s

Provide a preliminary diagnosis with the following structure:
1. Most likely conditions (2-3 possibilities)
2. Recommended over-the-counter medications
3. General care advice
4. When to see a doctor (red flags)

Important: This is for informational purposes only and not a substitute for professional medical advice.
Be empathetic, clear, and helpful.`

func patientInfo(age, gender string) string {
	if age == "" || gender == "" {
		return "Age and gender not provided"
	}
	return fmt.Sprintf("Age: %s, Gender: %s", age, gender)
}

func buildPrompt(req Request) string {
	return fmt.Sprintf(userPromptTemplate, patientInfo(req.Age, req.Gender), req.Symptoms)
}
