package db_models

import (
	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubStatusActive      SubscriptionStatus = "active"
	SubStatusExpired     SubscriptionStatus = "expired"
	SubStatusCanceled    SubscriptionStatus = "canceled"
	SubStatusPaused      SubscriptionStatus = "paused"
	SubStatusOnHold      SubscriptionStatus = "on_hold"
	SubStatusGracePeriod SubscriptionStatus = "grace_period"
)

// Subscription is one record per Google Play purchase lineage. PurchaseToken
// is the provider's idempotency key; the unique index on it is the safety net
// against duplicate webhook/verify races. Rows are never hard-deleted.
type Subscription struct {
	BaseModel
	// Nil until a client verify call claims the token for an account
	// (a webhook can arrive before the app ever talks to us).
	AccountID *uuid.UUID `gorm:"type:uuid;index"`

	ProductID     string `gorm:"index"`
	PurchaseToken string `gorm:"uniqueIndex"`
	OrderID       string `gorm:"index"`

	Status SubscriptionStatus `gorm:"type:subscription_status;index"`

	// Unix seconds, always UTC derived.
	StartTime      int64
	ExpiryTime     int64 `gorm:"not null"`
	AutoRenewing   bool  `gorm:"default:true"`
	LastVerifiedAt int64

	Account *Account `gorm:"foreignKey:AccountID"`
}
