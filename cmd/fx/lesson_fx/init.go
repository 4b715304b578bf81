package lesson_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"lingo/internal/api/controllers"
	"lingo/internal/repositories"
	"lingo/internal/services"
	"lingo/pkg/utils"
)

var Module = fx.Provide(
	provideLessonService, provideLessonRepo, provideLessonController)

func provideLessonRepo(db *gorm.DB) repositories.LessonRepository {
	return repositories.NewLessonRepository(db)
}

func provideLessonService(
	lessonRepo repositories.LessonRepository,
	entitlements services.EntitlementServiceInterface,
	gate services.AccessGateInterface,
	generator utils.LessonGeneratorInterface,
) services.LessonServiceInterface {
	return services.NewLessonService(lessonRepo, entitlements, gate, generator)
}

func provideLessonController(lessonService services.LessonServiceInterface) *controllers.LessonController {
	return controllers.NewLessonController(lessonService)
}
