package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"lingo/cmd/fx/access_fx"
	"lingo/cmd/fx/account_fx"
	"lingo/cmd/fx/content_fx"
	"lingo/cmd/fx/db_fx"
	"lingo/cmd/fx/journey_fx"
	"lingo/cmd/fx/lesson_fx"
	"lingo/cmd/fx/mail_fx"
	"lingo/cmd/fx/memcache_fx"
	"lingo/cmd/fx/subscription_fx"
	"lingo/internal/api/controllers"
	"lingo/pkg/middleware"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		content_fx.Module,
		account_fx.Module,
		access_fx.Module,
		subscription_fx.Module,
		journey_fx.Module,
		lesson_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	subscriptionController *controllers.SubscriptionController,
	journeyController *controllers.JourneyController,
	lessonController *controllers.LessonController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, accountController, subscriptionController, journeyController, lessonController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	subscriptionController *controllers.SubscriptionController,
	journeyController *controllers.JourneyController,
	lessonController *controllers.LessonController) {

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/signup", accountController.SignUp)
	accountGroup.POST("/login", accountController.Login)
	accountGroup.POST("/forgot-password", accountController.ForgotPassword)
	accountGroup.POST("/reset-password", accountController.ResetPassword)
	accountGroup.GET("/me", middleware.JWTAuthMiddleware(), accountController.Me)

	// Pub/Sub push endpoint; authenticated at the infrastructure level, not
	// with user JWTs.
	r.POST("/subscriptions/google/webhook", subscriptionController.HandleGoogleWebhook)

	subscriptionGroup := r.Group("/subscriptions", middleware.JWTAuthMiddleware())
	subscriptionGroup.POST("/verify", subscriptionController.Verify)
	subscriptionGroup.POST("/resync", subscriptionController.Resync)
	subscriptionGroup.GET("/me", subscriptionController.Me)

	journeyGroup := r.Group("/journeys", middleware.JWTAuthMiddleware())
	journeyGroup.POST("", journeyController.CreateJourney)
	journeyGroup.GET("", journeyController.GetJourneyByUserId)
	journeyGroup.GET("/:journeyId", journeyController.GetDetailsInfoOfJourneyById)

	lessonGroup := r.Group("/lessons", middleware.JWTAuthMiddleware())
	lessonGroup.POST("", lessonController.CreateLesson)
	lessonGroup.GET("/:lessonId", lessonController.GetLessonById)
	lessonGroup.POST("/:lessonId/audio", lessonController.CreateAudioLesson)
	lessonGroup.GET("/:lessonId/related", lessonController.GetRelatedLessons)
}
