package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"time"

	"lingo/internal/models/request_models"
	"lingo/pkg/memcache"
	"lingo/pkg/utils"
)

// RTDN notification types.
// Reference: https://developer.android.com/google/play/billing/rtdn-reference
const (
	NotificationRecovered            = 1
	NotificationRenewed              = 2
	NotificationCanceled             = 3
	NotificationPurchased            = 4
	NotificationOnHold               = 5
	NotificationInGracePeriod        = 6
	NotificationRestarted            = 7
	NotificationPriceChangeConfirmed = 8
	NotificationDeferred             = 9
	NotificationPaused               = 10
	NotificationPauseScheduleChanged = 11
	NotificationRevoked              = 12
	NotificationExpired              = 13
)

var notificationNames = map[int]string{
	NotificationRecovered:            "SUBSCRIPTION_RECOVERED",
	NotificationRenewed:              "SUBSCRIPTION_RENEWED",
	NotificationCanceled:             "SUBSCRIPTION_CANCELED",
	NotificationPurchased:            "SUBSCRIPTION_PURCHASED",
	NotificationOnHold:               "SUBSCRIPTION_ON_HOLD",
	NotificationInGracePeriod:        "SUBSCRIPTION_IN_GRACE_PERIOD",
	NotificationRestarted:            "SUBSCRIPTION_RESTARTED",
	NotificationPriceChangeConfirmed: "SUBSCRIPTION_PRICE_CHANGE_CONFIRMED",
	NotificationDeferred:             "SUBSCRIPTION_DEFERRED",
	NotificationPaused:               "SUBSCRIPTION_PAUSED",
	NotificationPauseScheduleChanged: "SUBSCRIPTION_PAUSE_SCHEDULE_CHANGED",
	NotificationRevoked:              "SUBSCRIPTION_REVOKED",
	NotificationExpired:              "SUBSCRIPTION_EXPIRED",
}

const dedupeTTL = 24 * time.Hour

// ReconcilerServiceInterface consumes Pub/Sub pushed RTDN events. The payload
// is never trusted for state values: whatever the event type says happened,
// the reconciler re-verifies the token against the Play API and persists only
// the provider's answer. That single rule makes replaying any event converge
// to the same stored state.
type ReconcilerServiceInterface interface {
	ProcessPubSubEnvelope(ctx context.Context, envelope request_models.PubSubEnvelope) error
}

type ReconcilerService struct {
	subscriptionService SubscriptionServiceInterface
	dedupe              memcache.EventDedupeStore
	cfg                 GooglePlayConfig
}

func NewReconcilerService(
	subscriptionService SubscriptionServiceInterface,
	dedupe memcache.EventDedupeStore,
	cfg GooglePlayConfig,
) ReconcilerServiceInterface {
	return &ReconcilerService{
		subscriptionService: subscriptionService,
		dedupe:              dedupe,
		cfg:                 cfg,
	}
}

// ProcessPubSubEnvelope returns nil for everything that must be acked
// (no-ops, duplicates, permanently unresolvable tokens). Only transient
// verification failures propagate, so Pub/Sub redelivers exactly the events
// that have a chance of succeeding later.
func (r *ReconcilerService) ProcessPubSubEnvelope(ctx context.Context, envelope request_models.PubSubEnvelope) error {

	notification, err := decodeNotification(envelope)
	if err != nil {
		log.Printf("Undecodable RTDN envelope (message %s): %v", envelope.Message.MessageID, err)
		return utils.ErrInvalidInput
	}

	if notification.TestNotification != nil {
		log.Printf("Received Play test notification, version %s", notification.TestNotification.Version)
		return nil
	}

	sub := notification.SubscriptionNotification
	if sub == nil || sub.PurchaseToken == "" {
		log.Printf("RTDN without subscription notification (message %s), ignoring", envelope.Message.MessageID)
		return nil
	}

	if r.dedupe.Seen(envelope.Message.MessageID) {
		log.Printf("Duplicate RTDN delivery %s, already applied", envelope.Message.MessageID)
		return nil
	}

	eventName := notificationNames[sub.NotificationType]
	if eventName == "" {
		eventName = "UNKNOWN"
	}
	log.Printf("Reconciling %s for token %.20s...", eventName, sub.PurchaseToken)

	// The event type never selects a state transition; every event is the
	// same instruction: re-fetch the truth. Unknown tokens get a fresh row
	// with no account attached until a client verify claims them.
	// The message is marked processed only on a final outcome. A transient
	// failure must leave it unmarked, otherwise the Pub/Sub redelivery the
	// 503 asks for would be dropped here as a duplicate.
	err = r.reverifyWithRetry(ctx, sub.PurchaseToken, sub.SubscriptionID, notification.PackageName)
	switch {
	case err == nil:
		r.dedupe.MarkProcessed(envelope.Message.MessageID, dedupeTTL)
		return nil
	case errors.Is(err, utils.ErrVerificationPermanent), errors.Is(err, utils.ErrMalformedProviderResponse):
		// Unresolvable token; retrying a webhook will not fix it.
		log.Printf("Permanent verification failure for %s token %.20s...: %v", eventName, sub.PurchaseToken, err)
		r.dedupe.MarkProcessed(envelope.Message.MessageID, dedupeTTL)
		return nil
	default:
		return err
	}
}

// reverifyWithRetry retries transient provider failures a few times with
// backoff; nobody is there to press retry on a webhook.
func (r *ReconcilerService) reverifyWithRetry(ctx context.Context, purchaseToken, productID, packageName string) error {

	backoff := 500 * time.Millisecond

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 4
		}

		_, err = r.subscriptionService.ApplyVerification(ctx, purchaseToken, productID, packageName, nil)
		if err == nil || !errors.Is(err, utils.ErrVerificationTransient) {
			return err
		}
		log.Printf("Transient verification failure (attempt %d) for token %.20s...: %v", attempt+1, purchaseToken, err)
	}

	return err
}

func decodeNotification(envelope request_models.PubSubEnvelope) (*request_models.DeveloperNotification, error) {

	if envelope.Message.Data == "" {
		return nil, errors.New("empty message data")
	}

	raw, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		return nil, err
	}

	var notification request_models.DeveloperNotification
	if err := json.Unmarshal(raw, &notification); err != nil {
		return nil, err
	}

	return &notification, nil
}
