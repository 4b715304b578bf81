package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"lingo/internal/models/db_models"
)

type AccountRepository interface {
	InsertTx(account *db_models.Account, ctx context.Context) error
	FindById(ctx context.Context, id string) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	UpdatePremiumCache(ctx context.Context, id string, isPremium bool, premiumExpiry *int64) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {

	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) InsertTx(account *db_models.Account, ctx context.Context) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) FindById(ctx context.Context, id string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	return a.db.WithContext(ctx).Model(&db_models.Account{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash).Error
}

// UpdatePremiumCache refreshes the denormalized entitlement fields. Callers
// are the verification and reconciliation paths only.
func (a *accountRepository) UpdatePremiumCache(ctx context.Context, id string, isPremium bool, premiumExpiry *int64) error {
	return a.db.WithContext(ctx).Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_premium":     isPremium,
			"premium_expiry": premiumExpiry,
		}).Error
}
