package journey_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"lingo/internal/api/controllers"
	"lingo/internal/repositories"
	"lingo/internal/services"
	"lingo/pkg/utils"
)

var Module = fx.Provide(
	provideJourneyService, provideJourneyRepo, provideJourneyController)

func provideJourneyRepo(db *gorm.DB) repositories.JourneyRepository {
	return repositories.NewJourneyRepository(db)
}

func provideJourneyService(
	journeyRepo repositories.JourneyRepository,
	entitlements services.EntitlementServiceInterface,
	gate services.AccessGateInterface,
	planner utils.JourneyPlannerInterface,
) services.JourneyServiceInterface {
	return services.NewJourneyService(journeyRepo, entitlements, gate, planner)
}

func provideJourneyController(journeyService services.JourneyServiceInterface) *controllers.JourneyController {
	return controllers.NewJourneyController(journeyService)
}
