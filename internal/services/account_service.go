package services

import (
	"context"
	"log"
	"time"

	"lingo/internal/models/db_models"
	"lingo/internal/models/request_models"
	"lingo/internal/models/response_models"
	"lingo/internal/repositories"
	"lingo/pkg/memcache"
	"lingo/pkg/utils"
)

type AccountServiceInterface interface {
	Login(request request_models.LoginRequest, ctx context.Context) (string, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) error
	GetAccountById(ctx context.Context, accountID string) (*response_models.AccountResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	mailService IMailService
	resetTokens memcache.ResetTokenStore
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	mailService IMailService,
	resetTokens memcache.ResetTokenStore,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		mailService: mailService,
		resetTokens: resetTokens,
	}
}

func (a *AccountService) Login(request request_models.LoginRequest, ctx context.Context) (string, error) {

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", utils.ErrDatabaseError
	}

	if account == nil {
		return "", utils.ErrAccountNotFound
	}

	err = utils.ComparePasswords(account.PasswordHash, request.Password)
	if err != nil {
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, account.Role)
	if err != nil {
		return "", utils.ErrInvalidCredentials
	}

	return token, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) error {

	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existingAccount != nil {
		return utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	newAccount := &db_models.Account{
		Name:         request.DisplayName,
		Email:        request.Email,
		PasswordHash: hashedPassword,
		Role:         "user", // default role
	}

	if err := a.accountRepo.InsertTx(newAccount, ctx); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}

// GetAccountById returns the profile including the cached premium fields.
// The cache is for display only; gated endpoints resolve entitlement fresh.
func (a *AccountService) GetAccountById(ctx context.Context, accountID string) (*response_models.AccountResponse, error) {

	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	resp := &response_models.AccountResponse{
		ID:        account.ID.String(),
		Name:      account.Name,
		Email:     account.Email,
		IsPremium: account.IsPremium,
	}
	if account.PremiumExpiry != nil {
		resp.PremiumExpiry = utils.FormatRFC3339(utils.FromUnixSeconds(*account.PremiumExpiry))
	}

	return resp, nil
}

func (a *AccountService) ForgotPassword(ctx context.Context, email string) error {

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		// Do not reveal whether the email exists.
		return nil
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return utils.ErrDatabaseError
	}

	a.resetTokens.Set(token, account.Email, 30*time.Minute)

	if err := a.mailService.SendMailToResetPassword(account.Email, token); err != nil {
		log.Printf("Failed to send reset mail to %s: %v", account.Email, err)
		return utils.ErrDatabaseError
	}

	return nil
}

func (a *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {

	email := a.resetTokens.Consume(token)
	if email == "" {
		return utils.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return utils.ErrDatabaseError
	}

	if err := a.accountRepo.UpdatePasswordByEmail(ctx, email, hashedPassword); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}
