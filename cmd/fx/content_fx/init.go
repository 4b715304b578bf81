// cmd/fx/content_fx/init.go
package content_fx

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/fx"

	"lingo/pkg/utils"
)

var Module = fx.Provide(
	ProvideJourneyPlanner,
	ProvideLessonGenerator)

// ProvideJourneyPlanner creates the Gemini-backed outline planner.
func ProvideJourneyPlanner() (utils.JourneyPlannerInterface, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for journey planning")
	}

	model := getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	log.Printf("Initializing Gemini journey planner with model: %s", model)

	planner, err := utils.NewGeminiJourneyPlanner(apiKey, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return planner, nil
}

// ProvideLessonGenerator creates the OpenAI-backed lesson/script generator.
func ProvideLessonGenerator() (utils.LessonGeneratorInterface, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for lesson generation")
	}

	model := getEnvWithDefault("OPENAI_MODEL", "")
	return utils.NewOpenAILessonGenerator(apiKey, model), nil
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
