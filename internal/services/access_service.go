package services

import (
	"context"
	"log"
	"time"

	"lingo/internal/models/db_models"
	"lingo/internal/models/response_models"
	"lingo/pkg/utils"
)

// UsageLimits is the free-tier limit table. Values are configuration
// (FREE_JOURNEY_LIMIT etc.), not something the gate hardcodes.
type UsageLimits struct {
	Journeys     int
	Lessons      int
	AudioLessons int
}

func (l UsageLimits) For(feature db_models.Feature) int {
	switch feature {
	case db_models.FeatureJourney:
		return l.Journeys
	case db_models.FeatureLesson:
		return l.Lessons
	case db_models.FeatureAudio:
		return l.AudioLessons
	}
	return 0
}

// AccessGateInterface decides allow/deny for a metered feature and owns the
// increment contract: CheckAccess before the operation, CommitUsage only
// after it succeeded, so a failed generation never charges the user.
type AccessGateInterface interface {
	CheckAccess(ctx context.Context, ent Entitlement, feature db_models.Feature, asOf time.Time) error
	CommitUsage(ctx context.Context, ent Entitlement, feature db_models.Feature, asOf time.Time)
	UsageSnapshot(ctx context.Context, ent Entitlement, asOf time.Time) (*response_models.UsageResponse, error)
}

type AccessGate struct {
	usageService UsageServiceInterface
	limits       UsageLimits
}

func NewAccessGate(usageService UsageServiceInterface, limits UsageLimits) AccessGateInterface {
	return &AccessGate{
		usageService: usageService,
		limits:       limits,
	}
}

// CheckAccess never touches a counter. Premium entitlements pass without a
// usage row even existing.
func (a *AccessGate) CheckAccess(ctx context.Context, ent Entitlement, feature db_models.Feature, asOf time.Time) error {

	if ent.IsPremium {
		return nil
	}

	usage, err := a.usageService.GetOrCreateCurrent(ctx, ent.SubscriptionRef, asOf)
	if err != nil {
		return err
	}

	limit := a.limits.For(feature)
	used := a.usageService.CountFor(usage, feature)
	if used >= limit {
		return &utils.LimitExceededError{
			Feature: string(feature),
			Limit:   limit,
			Used:    used,
		}
	}

	return nil
}

// CommitUsage records one successful use. The increment is a conditional
// compare-and-increment at the storage layer, so two requests that both
// passed CheckAccess cannot push the counter past the limit. The gated
// operation already succeeded by the time we get here, so a lost race or a
// db hiccup is logged rather than failed back to the user.
func (a *AccessGate) CommitUsage(ctx context.Context, ent Entitlement, feature db_models.Feature, asOf time.Time) {

	if ent.IsPremium {
		return
	}

	ok, err := a.usageService.TryConsume(ctx, ent.SubscriptionRef, asOf, feature, a.limits.For(feature))
	if err != nil {
		log.Printf("Failed to commit %s usage for %s: %v", feature, ent.SubscriptionRef, err)
		return
	}
	if !ok {
		log.Printf("Usage commit for %s hit the %s limit, counter already at bound", ent.SubscriptionRef, feature)
	}
}

func (a *AccessGate) UsageSnapshot(ctx context.Context, ent Entitlement, asOf time.Time) (*response_models.UsageResponse, error) {

	if ent.IsPremium {
		return nil, nil
	}

	usage, err := a.usageService.GetOrCreateCurrent(ctx, ent.SubscriptionRef, asOf)
	if err != nil {
		return nil, err
	}

	return &response_models.UsageResponse{
		Year:             usage.Year,
		Month:            usage.Month,
		JourneysUsed:     usage.JourneysUsed,
		JourneysLimit:    a.limits.Journeys,
		LessonsUsed:      usage.LessonsUsed,
		LessonsLimit:     a.limits.Lessons,
		AudioLessonsUsed: usage.AudioLessonsUsed,
		AudioLimit:       a.limits.AudioLessons,
	}, nil
}
