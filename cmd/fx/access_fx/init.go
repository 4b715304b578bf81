// cmd/fx/access_fx/init.go
package access_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"lingo/internal/repositories"
	"lingo/internal/services"
)

var Module = fx.Provide(
	provideUsageRepo,
	provideUsageService,
	provideUsageLimits,
	provideAccessGate,
	provideEntitlementService)

func provideUsageRepo(db *gorm.DB) repositories.UsageRepository {
	return repositories.NewUsageRepository(db)
}

func provideUsageService(usageRepo repositories.UsageRepository) services.UsageServiceInterface {
	return services.NewUsageService(usageRepo)
}

// provideUsageLimits reads the free-tier monthly limits from the environment
// so they can be tuned without a release.
func provideUsageLimits() services.UsageLimits {
	return services.UsageLimits{
		Journeys:     limitFromEnv("FREE_JOURNEY_LIMIT", 2),
		Lessons:      limitFromEnv("FREE_LESSON_LIMIT", 10),
		AudioLessons: limitFromEnv("FREE_AUDIO_LIMIT", 5),
	}
}

func provideAccessGate(usageService services.UsageServiceInterface, limits services.UsageLimits) services.AccessGateInterface {
	return services.NewAccessGate(usageService, limits)
}

func provideEntitlementService(
	subscriptionRepo repositories.SubscriptionRepository,
	accountRepo repositories.AccountRepository,
) services.EntitlementServiceInterface {
	return services.NewEntitlementService(subscriptionRepo, accountRepo)
}

func limitFromEnv(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		log.Printf("Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}

	return value
}
