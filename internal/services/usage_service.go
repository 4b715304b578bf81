package services

import (
	"context"
	"time"

	"lingo/internal/models/db_models"
	"lingo/internal/repositories"
	"lingo/pkg/utils"
)

// UsageServiceInterface is the period resolver: it derives the UTC
// (year, month) key for a point in time and lazily materializes the counter
// row for it. "Monthly reset" is emergent from the key changing, there is no
// scheduled job anywhere.
type UsageServiceInterface interface {
	GetOrCreateCurrent(ctx context.Context, subscriptionRef string, asOf time.Time) (*db_models.UsagePeriod, error)
	TryConsume(ctx context.Context, subscriptionRef string, asOf time.Time, feature db_models.Feature, limit int) (bool, error)
	CountFor(usage *db_models.UsagePeriod, feature db_models.Feature) int
}

type UsageService struct {
	usageRepo repositories.UsageRepository
}

func NewUsageService(usageRepo repositories.UsageRepository) UsageServiceInterface {
	return &UsageService{
		usageRepo: usageRepo,
	}
}

func (u *UsageService) GetOrCreateCurrent(ctx context.Context, subscriptionRef string, asOf time.Time) (*db_models.UsagePeriod, error) {

	year, month := utils.PeriodOf(asOf)

	period, err := u.usageRepo.GetOrCreate(ctx, subscriptionRef, year, month)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return period, nil
}

func (u *UsageService) TryConsume(ctx context.Context, subscriptionRef string, asOf time.Time, feature db_models.Feature, limit int) (bool, error) {

	year, month := utils.PeriodOf(asOf)

	ok, err := u.usageRepo.IncrementIfBelow(ctx, subscriptionRef, year, month, feature, limit)
	if err != nil {
		return false, utils.ErrDatabaseError
	}

	return ok, nil
}

func (u *UsageService) CountFor(usage *db_models.UsagePeriod, feature db_models.Feature) int {
	return u.usageRepo.CountFor(usage, feature)
}
