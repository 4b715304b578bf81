package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lingo/internal/models/db_models"
	"lingo/internal/models/request_models"
	"lingo/internal/repositories"
	"lingo/pkg/utils"
)

// SubscriptionServiceInterface owns every write of provider-derived state.
// The verify endpoint, the resync endpoint and the webhook reconciler all
// funnel through ApplyVerification; nothing else may touch status, expiry or
// auto_renewing on a subscription row.
type SubscriptionServiceInterface interface {
	VerifyAndSave(ctx context.Context, accountID string, req request_models.VerifySubscriptionRequest) (*db_models.Subscription, error)
	Resync(ctx context.Context, purchaseToken string) (*db_models.Subscription, error)
	ApplyVerification(ctx context.Context, purchaseToken, productID, packageName string, claimAccountID *uuid.UUID) (*db_models.Subscription, error)
}

type SubscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	accountRepo      repositories.AccountRepository
	playClient       GooglePlayClientInterface
	entitlements     EntitlementServiceInterface
	mailService      IMailService
	cfg              GooglePlayConfig
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	accountRepo repositories.AccountRepository,
	playClient GooglePlayClientInterface,
	entitlements EntitlementServiceInterface,
	mailService IMailService,
	cfg GooglePlayConfig,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		accountRepo:      accountRepo,
		playClient:       playClient,
		entitlements:     entitlements,
		mailService:      mailService,
		cfg:              cfg,
	}
}

// MapPlayStatus normalizes the provider's (paymentState, expiry, flags)
// combination into the internal status enum. The expiry check comes first:
// a stale "active" payment state on a past expiry is still not premium.
func MapPlayStatus(v *PlayVerification, now time.Time) db_models.SubscriptionStatus {

	if !v.AutoResumeTime.IsZero() && v.AutoResumeTime.After(now) {
		return db_models.SubStatusPaused
	}

	if !v.ExpiryTime.After(now) {
		if v.CancelReason != nil {
			// Includes refunds/revocations: Play zeroes the expiry and
			// reports the cancel reason, entitlement ends immediately.
			return db_models.SubStatusCanceled
		}
		return db_models.SubStatusExpired
	}

	if v.PaymentState != nil {
		switch *v.PaymentState {
		case 1, 2, 3: // received, free trial, deferred
			return db_models.SubStatusActive
		case 0: // payment pending
			if v.AutoRenewing {
				return db_models.SubStatusGracePeriod
			}
			return db_models.SubStatusOnHold
		}
	}

	return db_models.SubStatusCanceled
}

func (s *SubscriptionService) VerifyAndSave(ctx context.Context, accountID string, req request_models.VerifySubscriptionRequest) (*db_models.Subscription, error) {

	uid, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	return s.ApplyVerification(ctx, req.PurchaseToken, req.ProductID, req.PackageName, &uid)
}

func (s *SubscriptionService) Resync(ctx context.Context, purchaseToken string) (*db_models.Subscription, error) {

	existing, err := s.subscriptionRepo.FindByPurchaseToken(ctx, purchaseToken)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing == nil {
		return nil, utils.ErrSubscriptionNotFound
	}

	return s.ApplyVerification(ctx, purchaseToken, existing.ProductID, s.cfg.PackageName, nil)
}

func (s *SubscriptionService) ApplyVerification(ctx context.Context, purchaseToken, productID, packageName string, claimAccountID *uuid.UUID) (*db_models.Subscription, error) {

	verification, err := s.playClient.VerifySubscription(ctx, packageName, productID, purchaseToken)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	status := MapPlayStatus(verification, now)

	sub, err := s.subscriptionRepo.FindByPurchaseToken(ctx, purchaseToken)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	wasPremium := sub != nil && premiumStatus(sub.Status)

	if sub == nil {
		sub = &db_models.Subscription{
			AccountID:     claimAccountID,
			ProductID:     productID,
			PurchaseToken: purchaseToken,
		}
		s.applyProviderState(sub, verification, status, now)

		err = s.subscriptionRepo.Insert(ctx, sub)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Simultaneous verify call and webhook for a new token: the
			// other writer won the insert, fall through to an update.
			sub, err = s.subscriptionRepo.FindByPurchaseToken(ctx, purchaseToken)
			if err != nil || sub == nil {
				return nil, utils.ErrDatabaseError
			}
			wasPremium = premiumStatus(sub.Status)
		} else if err != nil {
			return nil, utils.ErrDatabaseError
		} else {
			return s.finish(ctx, sub, wasPremium)
		}
	}

	s.applyProviderState(sub, verification, status, now)
	if claimAccountID != nil {
		// Ensure the token belongs to the calling account (reinstalls,
		// tokens first seen via webhook).
		sub.AccountID = claimAccountID
	}

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return s.finish(ctx, sub, wasPremium)
}

func (s *SubscriptionService) applyProviderState(sub *db_models.Subscription, v *PlayVerification, status db_models.SubscriptionStatus, now time.Time) {
	sub.ProductID = v.ProductID
	if v.OrderID != "" {
		sub.OrderID = v.OrderID
	}
	sub.Status = status
	if !v.StartTime.IsZero() {
		sub.StartTime = v.StartTime.Unix()
	}
	sub.ExpiryTime = v.ExpiryTime.Unix()
	sub.AutoRenewing = v.AutoRenewing
	sub.LastVerifiedAt = now.Unix()
}

// finish refreshes the account premium cache and sends the one-time upgrade
// mail. Both are best-effort: the subscription row is already authoritative.
func (s *SubscriptionService) finish(ctx context.Context, sub *db_models.Subscription, wasPremium bool) (*db_models.Subscription, error) {

	if sub.AccountID == nil {
		return sub, nil
	}
	accountID := sub.AccountID.String()

	if err := s.entitlements.RefreshAccountCache(ctx, accountID); err != nil {
		log.Printf("Premium cache refresh failed for account %s: %v", accountID, err)
	}

	if !wasPremium && premiumStatus(sub.Status) {
		if account, err := s.accountRepo.FindById(ctx, accountID); err == nil && account != nil {
			go func(email string) {
				if err := s.mailService.SendMailToNotifyUser(
					email,
					"Welcome to Lingo Premium",
					"Your subscription is active. Journeys, lessons and audio lessons are now unlimited.",
					"", "",
				); err != nil {
					log.Printf("Failed to send premium welcome mail to %s: %v", email, err)
				}
			}(account.Email)
		}
	}

	return sub, nil
}
