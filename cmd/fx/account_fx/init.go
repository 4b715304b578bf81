package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"lingo/internal/api/controllers"
	"lingo/internal/repositories"
	"lingo/internal/services"
	mem "lingo/pkg/memcache"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideAccountController)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(accountRepo repositories.AccountRepository, mailService services.IMailService, resetTokens mem.ResetTokenStore) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, mailService, resetTokens)
}

func provideAccountController(accountService services.AccountServiceInterface) *controllers.AccountController {
	return controllers.NewAccountController(accountService)
}
