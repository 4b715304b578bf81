package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"lingo/internal/models/db_models"
)

type SubscriptionRepository interface {
	FindByPurchaseToken(ctx context.Context, purchaseToken string) (*db_models.Subscription, error)
	FindByAccountId(ctx context.Context, accountID string) ([]db_models.Subscription, error)
	Insert(ctx context.Context, sub *db_models.Subscription) error
	Update(ctx context.Context, sub *db_models.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

func (s *subscriptionRepository) FindByPurchaseToken(ctx context.Context, purchaseToken string) (*db_models.Subscription, error) {

	var sub db_models.Subscription
	err := s.db.WithContext(ctx).First(&sub, "purchase_token = ?", purchaseToken).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

// FindByAccountId returns every subscription row the account has accumulated,
// newest entitlement first. The entitlement resolver does the filtering; the
// ordering here is latest expiry, then latest verification, which is also the
// tie-break for two simultaneously active rows.
func (s *subscriptionRepository) FindByAccountId(ctx context.Context, accountID string) ([]db_models.Subscription, error) {

	var subs []db_models.Subscription
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("expiry_time DESC, last_verified_at DESC").
		Find(&subs).Error

	if err != nil {
		return nil, err
	}

	return subs, nil
}

func (s *subscriptionRepository) Insert(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *subscriptionRepository) Update(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).Save(sub).Error
}
