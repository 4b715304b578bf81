package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"google.golang.org/api/androidpublisher/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"lingo/pkg/utils"
)

type GooglePlayConfig struct {
	PackageName     string // e.g. com.lingo.app
	CredentialsJSON string // service account key with androidpublisher scope
	ProviderName    string // "google_play"
}

// PlayVerification is the normalized authoritative subscription state from
// the Play Developer API. Everything the rest of the system knows about a
// purchase token comes from here; webhook payloads are only hints to re-fetch.
type PlayVerification struct {
	ProductID      string
	OrderID        string
	StartTime      time.Time
	ExpiryTime     time.Time
	AutoRenewing   bool
	PaymentState   *int64 // 0 pending, 1 received, 2 free trial, 3 deferred; nil when canceled/expired
	CancelReason   *int64
	AutoResumeTime time.Time // set when the user paused the subscription
}

// GooglePlayClientInterface is the verification adapter boundary; the tests
// and the reconciler fake it out.
type GooglePlayClientInterface interface {
	VerifySubscription(ctx context.Context, packageName, productID, purchaseToken string) (*PlayVerification, error)
}

type googlePlayClient struct {
	cfg GooglePlayConfig
	svc *androidpublisher.Service
}

func NewGooglePlayClient(cfg GooglePlayConfig) (GooglePlayClientInterface, error) {
	if cfg.PackageName == "" {
		return nil, errors.New("missing Google Play package name")
	}
	if cfg.CredentialsJSON == "" {
		return nil, errors.New("missing Google Play service account credentials")
	}

	svc, err := androidpublisher.NewService(context.Background(),
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(androidpublisher.AndroidpublisherScope),
	)
	if err != nil {
		return nil, fmt.Errorf("androidpublisher client init: %w", err)
	}

	return &googlePlayClient{
		cfg: cfg,
		svc: svc,
	}, nil
}

func (g *googlePlayClient) VerifySubscription(ctx context.Context, packageName, productID, purchaseToken string) (*PlayVerification, error) {

	if packageName == "" {
		packageName = g.cfg.PackageName
	}

	purchase, err := g.svc.Purchases.Subscriptions.
		Get(packageName, productID, purchaseToken).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyPlayError(err)
	}

	if purchase.ExpiryTimeMillis == 0 {
		// The one field everything downstream depends on. Missing it means
		// the provider contract changed; keep the full context in the log.
		log.Printf("Play response missing expiryTimeMillis for token %.20s... (product %s): %+v",
			purchaseToken, productID, purchase)
		return nil, utils.ErrMalformedProviderResponse
	}

	v := &PlayVerification{
		ProductID:    productID,
		OrderID:      purchase.OrderId,
		StartTime:    utils.FromUnixMillis(purchase.StartTimeMillis),
		ExpiryTime:   utils.FromUnixMillis(purchase.ExpiryTimeMillis),
		AutoRenewing: purchase.AutoRenewing,
		PaymentState: purchase.PaymentState,
	}
	if purchase.CancelReason != 0 || purchase.UserCancellationTimeMillis != 0 {
		reason := purchase.CancelReason
		v.CancelReason = &reason
	}
	if purchase.AutoResumeTimeMillis > 0 {
		v.AutoResumeTime = utils.FromUnixMillis(purchase.AutoResumeTimeMillis)
	}

	return v, nil
}

// classifyPlayError splits provider failures into retry-eligible and
// permanent ones. Unknown/invalid tokens come back as 400/404/410 and will
// never succeed; everything that smells like an outage is transient.
func classifyPlayError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%w: %v", utils.ErrVerificationPermanent, err)
		case http.StatusTooManyRequests, http.StatusRequestTimeout:
			return fmt.Errorf("%w: %v", utils.ErrVerificationTransient, err)
		}
		if apiErr.Code >= 500 {
			return fmt.Errorf("%w: %v", utils.ErrVerificationTransient, err)
		}
		return fmt.Errorf("%w: %v", utils.ErrVerificationPermanent, err)
	}
	// No structured API error: network-level failure, provider unreachable.
	return fmt.Errorf("%w: %v", utils.ErrVerificationTransient, err)
}
