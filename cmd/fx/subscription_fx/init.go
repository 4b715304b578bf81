// cmd/fx/subscription_fx/init.go
package subscription_fx

import (
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"lingo/internal/api/controllers"
	"lingo/internal/repositories"
	"lingo/internal/services"
	mem "lingo/pkg/memcache"
)

var Module = fx.Provide(
	provideGooglePlayConfig,
	provideGooglePlayClient,
	provideSubscriptionRepo,
	provideSubscriptionService,
	provideReconcilerService,
	provideSubscriptionController)

func provideGooglePlayConfig() services.GooglePlayConfig {
	return services.GooglePlayConfig{
		PackageName:     os.Getenv("GOOGLE_PLAY_PACKAGE_NAME"),
		CredentialsJSON: os.Getenv("GOOGLE_PLAY_CREDENTIALS_JSON"),
		ProviderName:    "google_play",
	}
}

func provideGooglePlayClient(cfg services.GooglePlayConfig) (services.GooglePlayClientInterface, error) {
	return services.NewGooglePlayClient(cfg)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	accountRepo repositories.AccountRepository,
	playClient services.GooglePlayClientInterface,
	entitlements services.EntitlementServiceInterface,
	mailService services.IMailService,
	cfg services.GooglePlayConfig,
) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(subscriptionRepo, accountRepo, playClient, entitlements, mailService, cfg)
}

func provideReconcilerService(
	subscriptionService services.SubscriptionServiceInterface,
	dedupe mem.EventDedupeStore,
	cfg services.GooglePlayConfig,
) services.ReconcilerServiceInterface {
	return services.NewReconcilerService(subscriptionService, dedupe, cfg)
}

func provideSubscriptionController(
	subscriptionService services.SubscriptionServiceInterface,
	entitlements services.EntitlementServiceInterface,
	gate services.AccessGateInterface,
	reconciler services.ReconcilerServiceInterface,
) *controllers.SubscriptionController {
	return controllers.NewSubscriptionController(subscriptionService, entitlements, gate, reconciler)
}
