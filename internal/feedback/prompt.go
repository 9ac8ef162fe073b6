package feedback

import (
	"fmt"
	"strings"

	"github.com/abhisek/parley/internal/practice"
)

const systemPromptTemplate = `You are a language tutor helping a student practice %s (native: %s).
Difficulty Level: %s.
Scenario: %s.

Your goal is to provide immediate feedback on the user's answer and generate the next short practice prompt.

Output must be valid JSON matching this schema:
{
  "corrected": "string (the corrected version of the user's answer)",
  "explanation": "string (brief 1-3 sentences explaining errors or grammar)",
  "alternatives": ["string", "string"] (1-2 natural alternative phrasings),
  "next_prompt": "string (the next short question or task for the user)"
}

If this is the START of the session (no user answer provided), set "corrected" and "explanation" to empty strings and "alternatives" to an empty array, and provide only the first "next_prompt".`

// buildSystemPrompt embeds the session parameters in the tutor directive.
func buildSystemPrompt(s practice.Session) string {
	return fmt.Sprintf(systemPromptTemplate,
		s.TargetLanguage, s.NativeLanguage, s.Difficulty, s.Scenario)
}

// buildUserMessage returns the start instruction when answer is empty,
// otherwise the prompt/answer pair to correct.
func buildUserMessage(s practice.Session, answer string) string {
	if answer == "" {
		return fmt.Sprintf("Start the session. Generate the first prompt based on the scenario: %q.", s.Scenario)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Current Prompt: %q\n", s.Prompt())
	fmt.Fprintf(&b, "My Answer: %q\n", answer)
	b.WriteString("Please correct me and give the next prompt.")
	return b.String()
}
