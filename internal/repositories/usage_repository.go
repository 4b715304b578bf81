package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"lingo/internal/models/db_models"
)

type UsageRepository interface {
	GetOrCreate(ctx context.Context, subscriptionRef string, year, month int) (*db_models.UsagePeriod, error)
	// IncrementIfBelow bumps the feature counter for the period only while it
	// is still under limit, as one conditional UPDATE. Returns false when the
	// bound was hit, so concurrent requests cannot overshoot it.
	IncrementIfBelow(ctx context.Context, subscriptionRef string, year, month int, feature db_models.Feature, limit int) (bool, error)
	CountFor(usage *db_models.UsagePeriod, feature db_models.Feature) int
}

// Closed mapping, never build column names from request input.
var featureColumns = map[db_models.Feature]string{
	db_models.FeatureJourney: "journeys_used",
	db_models.FeatureLesson:  "lessons_used",
	db_models.FeatureAudio:   "audio_lessons_used",
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{
		db: db,
	}
}

func (u *usageRepository) find(ctx context.Context, ref string, year, month int) (*db_models.UsagePeriod, error) {
	var period db_models.UsagePeriod
	err := u.db.WithContext(ctx).
		First(&period, "subscription_ref = ? AND year = ? AND month = ?", ref, year, month).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// GetOrCreate is the lazy period bootstrap: there is no scheduler resetting
// counters, a new month simply resolves to a new zeroed row. Concurrent first
// requests race on the composite unique index; the loser re-fetches.
func (u *usageRepository) GetOrCreate(ctx context.Context, ref string, year, month int) (*db_models.UsagePeriod, error) {

	period, err := u.find(ctx, ref, year, month)
	if err != nil {
		return nil, err
	}
	if period != nil {
		return period, nil
	}

	fresh := &db_models.UsagePeriod{
		SubscriptionRef: ref,
		Year:            year,
		Month:           month,
	}
	err = u.db.WithContext(ctx).Create(fresh).Error
	if err == nil {
		return fresh, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// Lost the create race, the row exists now.
	period, err = u.find(ctx, ref, year, month)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, fmt.Errorf("usage period vanished after duplicate key for %s %d-%d", ref, year, month)
	}
	return period, nil
}

func (u *usageRepository) IncrementIfBelow(ctx context.Context, ref string, year, month int, feature db_models.Feature, limit int) (bool, error) {

	column, ok := featureColumns[feature]
	if !ok {
		return false, fmt.Errorf("unknown feature: %s", feature)
	}

	res := u.db.WithContext(ctx).Model(&db_models.UsagePeriod{}).
		Where("subscription_ref = ? AND year = ? AND month = ? AND "+column+" < ?", ref, year, month, limit).
		UpdateColumn(column, gorm.Expr(column+" + 1"))

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (u *usageRepository) CountFor(usage *db_models.UsagePeriod, feature db_models.Feature) int {
	if usage == nil {
		return 0
	}
	switch feature {
	case db_models.FeatureJourney:
		return usage.JourneysUsed
	case db_models.FeatureLesson:
		return usage.LessonsUsed
	case db_models.FeatureAudio:
		return usage.AudioLessonsUsed
	}
	return 0
}
