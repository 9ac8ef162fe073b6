package feedback

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/parley/internal/llm"
)

var (
	scenarioPattern = regexp.MustCompile(`scenario: "(.*)"\.`)
	answerPattern   = regexp.MustCompile(`My Answer: "(.*)"`)
)

// NewDemoProvider returns a mock provider that answers every request
// without network access. It echoes answers back as their own correction
// and walks through a fixed list of prompts. Used by the "mock" provider.
func NewDemoProvider() *llm.MockProvider {
	prompts := []string{
		"Describe what you would like to order.",
		"Ask how much it costs.",
		"Say how you would like to pay.",
		"Thank them and say goodbye.",
	}
	turn := 0

	m := llm.NewMockProvider()
	m.Fallback = func(req llm.Request) llm.MockResponse {
		var msg string
		if len(req.Messages) > 0 {
			msg = req.Messages[len(req.Messages)-1].Content
		}

		out := feedbackOutput{Alternatives: []string{}}
		if sm := scenarioPattern.FindStringSubmatch(msg); sm != nil {
			out.NextPrompt = fmt.Sprintf("Let's begin: %s. Start the conversation.", sm[1])
		} else {
			answer := ""
			if am := answerPattern.FindStringSubmatch(msg); am != nil {
				answer = strings.TrimSpace(am[1])
			}
			out.Corrected = answer
			out.Explanation = "Offline demo mode: answers are not checked."
			out.NextPrompt = prompts[turn%len(prompts)]
			turn++
		}

		content, _ := json.Marshal(out)
		return llm.MockResponse{Content: content}
	}
	return m
}
