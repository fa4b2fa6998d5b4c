package openai

import (
	"encoding/json"
	"fmt"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
	"github.com/fairyhunter13/resume-ai-evaluator/pkg/textx"
)

const systemPrompt = "You are an expert resume evaluator. Always return valid JSON."

// buildUserPrompt embeds the full job description, the truncated resume
// text, and the structured profile serialized for readability.
func buildUserPrompt(jobDescription, rawText string, profile domain.StructuredProfile, textLimit int) string {
	structured, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		structured = []byte("{}")
	}
	return fmt.Sprintf(`Evaluate this resume against the following job description:

JOB DESCRIPTION:
%s

RESUME TEXT:
%s

STRUCTURED DATA:
%s

Please provide a comprehensive evaluation in JSON format with the following structure:
{
    "fit_score": <number between 1-10>,
    "recommendation": "Interview" or "Decline",
    "strengths": ["strength1", "strength2", ...],
    "weaknesses": ["weakness1", "weakness2", ...],
    "summary_text": "<detailed narrative summary of the candidate's qualifications, experience, and fit for the role>"
}

The summary_text should be approximately 1000-1500 words and provide a comprehensive analysis.`,
		jobDescription, textx.Truncate(rawText, textLimit), structured)
}
