package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// JourneyPlannerInterface produces a structured learning-journey outline.
type JourneyPlannerInterface interface {
	GenerateOutlineJSON(ctx context.Context, targetLanguage, level, goal string, weekCount int) (string, error)
}

// GeminiJourneyPlanner implements JourneyPlannerInterface using Google's Gemini models
type GeminiJourneyPlanner struct {
	client *genai.Client
	model  string
}

// NewGeminiJourneyPlanner creates a new Gemini client
func NewGeminiJourneyPlanner(apiKey, model string) (JourneyPlannerInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiJourneyPlanner{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiJourneyPlanner) GenerateOutlineJSON(
	ctx context.Context,
	targetLanguage, level, goal string,
	weekCount int,
) (string, error) {

	if weekCount < 1 || weekCount > 12 {
		return "", fmt.Errorf("bad weekCount")
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return "", fmt.Errorf("target language cannot be empty")
	}

	m := c.client.GenerativeModel(c.model)
	// Force JSON-only so we never have to strip markdown fences:
	m.ResponseMIMEType = "application/json"
	m.SetTopP(0.5)
	m.SetTopK(20)
	m.SetTemperature(0.2)
	m.SetMaxOutputTokens(4000)

	schema := `
{
  "title": "string",
  "language": "string",
  "level": "beginner|intermediate|advanced",
  "weeks": [
    {
      "week": 1,
      "theme": "string",
      "lesson_topics": ["string", "string", "string"]
    }
  ]
}`

	prompt := fmt.Sprintf(`
You are designing a %d-week %s course for a %s learner. Return **JSON only**
that exactly matches the schema below. 3-5 lesson topics per week, progressing
in difficulty. Bias the themes toward the learner goal if one is given.

Schema (example, match keys exactly):
%s

Learner goal (may be empty):
%s

Hard constraints:
- Exactly %d entries in "weeks".
- Each weeks.week = 1..%d (no gaps).
- Topics must be concrete and teachable in a single lesson.

Return JSON only. No comments, no markdown.
`, weekCount, targetLanguage, level, schema, goal, weekCount, weekCount)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := m.GenerateContent(ctxWithTimeout, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content")
	}
	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	// Because ResponseMIMEType="application/json", this should already be clean JSON.
	if !json.Valid([]byte(content)) {
		return "", fmt.Errorf("not valid json")
	}
	return content, nil
}
