package services

import (
	"context"
	"log"
	"time"

	"lingo/internal/models/db_models"
	"lingo/internal/repositories"
	"lingo/pkg/utils"
)

// Entitlement is the resolved access level for an account at a point in time.
// SubscriptionRef is the identity usage periods are keyed on, so free and
// premium users meter through the same scheme.
type Entitlement struct {
	IsPremium       bool
	SubscriptionRef string
	Subscription    *db_models.Subscription // nil for the free tier
	Expiry          time.Time               // zero for the free tier
}

type EntitlementServiceInterface interface {
	// Resolve is read-only and never consults the Account premium cache.
	Resolve(ctx context.Context, accountID string) (Entitlement, error)
	// RefreshAccountCache re-resolves and writes the denormalized premium
	// fields; called after verification and reconciliation events only.
	RefreshAccountCache(ctx context.Context, accountID string) error
}

type EntitlementService struct {
	subscriptionRepo repositories.SubscriptionRepository
	accountRepo      repositories.AccountRepository
}

func NewEntitlementService(
	subscriptionRepo repositories.SubscriptionRepository,
	accountRepo repositories.AccountRepository,
) EntitlementServiceInterface {
	return &EntitlementService{
		subscriptionRepo: subscriptionRepo,
		accountRepo:      accountRepo,
	}
}

// VirtualFreeRef derives the stable free-tier usage identity for an account.
func VirtualFreeRef(accountID string) string {
	return "free:" + accountID
}

func freeEntitlement(accountID string) Entitlement {
	return Entitlement{
		IsPremium:       false,
		SubscriptionRef: VirtualFreeRef(accountID),
	}
}

// premiumStatus: grace period still grants access, on hold does not.
func premiumStatus(s db_models.SubscriptionStatus) bool {
	return s == db_models.SubStatusActive || s == db_models.SubStatusGracePeriod
}

func (e *EntitlementService) Resolve(ctx context.Context, accountID string) (Entitlement, error) {

	subs, err := e.subscriptionRepo.FindByAccountId(ctx, accountID)
	if err != nil {
		return freeEntitlement(accountID), utils.ErrDatabaseError
	}

	now := time.Now().UTC()

	// Rows arrive ordered by expiry desc then last_verified_at desc, which
	// is exactly the tie-break for two simultaneously active rows. A stale
	// ACTIVE row whose expiry already passed never qualifies.
	for i := range subs {
		sub := &subs[i]
		if !premiumStatus(sub.Status) {
			continue
		}
		expiry := utils.FromUnixSeconds(sub.ExpiryTime)
		if !expiry.After(now) {
			continue
		}
		return Entitlement{
			IsPremium:       true,
			SubscriptionRef: sub.ID.String(),
			Subscription:    sub,
			Expiry:          expiry,
		}, nil
	}

	return freeEntitlement(accountID), nil
}

func (e *EntitlementService) RefreshAccountCache(ctx context.Context, accountID string) error {

	ent, err := e.Resolve(ctx, accountID)
	if err != nil {
		return err
	}

	var expiry *int64
	if ent.IsPremium {
		v := ent.Expiry.Unix()
		expiry = &v
	}

	if err := e.accountRepo.UpdatePremiumCache(ctx, accountID, ent.IsPremium, expiry); err != nil {
		log.Printf("Failed to refresh premium cache for account %s: %v", accountID, err)
		return utils.ErrDatabaseError
	}

	return nil
}
