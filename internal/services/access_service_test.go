package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingo/internal/models/db_models"
	"lingo/pkg/utils"
)

var testLimits = UsageLimits{Journeys: 2, Lessons: 10, AudioLessons: 5}

func freeEnt() Entitlement {
	return Entitlement{IsPremium: false, SubscriptionRef: "free:" + uuid.New().String()}
}

func premiumEnt() Entitlement {
	return Entitlement{IsPremium: true, SubscriptionRef: uuid.New().String()}
}

func TestCheckAccessPremiumBypassesCounters(t *testing.T) {
	usage := newFakeUsageService()
	gate := NewAccessGate(usage, testLimits)

	err := gate.CheckAccess(context.Background(), premiumEnt(), db_models.FeatureLesson, time.Now().UTC())

	require.NoError(t, err)
	// No usage row should ever be materialized for a premium entitlement.
	assert.Empty(t, usage.counters)
}

func TestCheckAccessAllowsUnderLimit(t *testing.T) {
	usage := newFakeUsageService()
	gate := NewAccessGate(usage, testLimits)
	ent := freeEnt()
	now := time.Now().UTC()

	for i := 0; i < testLimits.Lessons; i++ {
		require.NoError(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureLesson, now))
		gate.CommitUsage(context.Background(), ent, db_models.FeatureLesson, now)
	}
}

func TestCheckAccessDeniesAtLimit(t *testing.T) {
	usage := newFakeUsageService()
	gate := NewAccessGate(usage, testLimits)
	ent := freeEnt()
	now := time.Now().UTC()

	for i := 0; i < testLimits.Journeys; i++ {
		require.NoError(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureJourney, now))
		gate.CommitUsage(context.Background(), ent, db_models.FeatureJourney, now)
	}

	err := gate.CheckAccess(context.Background(), ent, db_models.FeatureJourney, now)

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrLimitExceeded)

	var denied *utils.LimitExceededError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, string(db_models.FeatureJourney), denied.Feature)
	assert.Equal(t, testLimits.Journeys, denied.Limit)
	assert.Equal(t, testLimits.Journeys, denied.Used)
}

func TestFeaturesAreMeteredIndependently(t *testing.T) {
	usage := newFakeUsageService()
	gate := NewAccessGate(usage, testLimits)
	ent := freeEnt()
	now := time.Now().UTC()

	for i := 0; i < testLimits.Journeys; i++ {
		require.NoError(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureJourney, now))
		gate.CommitUsage(context.Background(), ent, db_models.FeatureJourney, now)
	}

	// Journeys exhausted, lessons and audio untouched.
	assert.Error(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureJourney, now))
	assert.NoError(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureLesson, now))
	assert.NoError(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureAudio, now))
}

func TestNewMonthStartsFreshCounters(t *testing.T) {
	usage := newFakeUsageService()
	gate := NewAccessGate(usage, testLimits)
	ent := freeEnt()

	january := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)
	for i := 0; i < testLimits.Journeys; i++ {
		require.NoError(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureJourney, january))
		gate.CommitUsage(context.Background(), ent, db_models.FeatureJourney, january)
	}
	assert.Error(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureJourney, january))

	february := time.Date(2026, time.February, 1, 0, 0, 1, 0, time.UTC)
	assert.NoError(t, gate.CheckAccess(context.Background(), ent, db_models.FeatureJourney, february))

	// The January row is untouched, not reset.
	year, month := utils.PeriodOf(january)
	jan, err := usage.GetOrCreateCurrent(context.Background(), ent.SubscriptionRef, january)
	require.NoError(t, err)
	assert.Equal(t, year, jan.Year)
	assert.Equal(t, month, jan.Month)
	assert.Equal(t, testLimits.Journeys, jan.JourneysUsed)
}

func TestCommitUsagePremiumIsNoOp(t *testing.T) {
	usage := newFakeUsageService()
	gate := NewAccessGate(usage, testLimits)

	gate.CommitUsage(context.Background(), premiumEnt(), db_models.FeatureAudio, time.Now().UTC())

	assert.Empty(t, usage.counters)
}

func TestCommitUsageSwallowsStorageErrors(t *testing.T) {
	// The gated operation already succeeded; a failed counter write must
	// not surface to the caller.
	usage := newFakeUsageService()
	usage.err = utils.ErrDatabaseError
	gate := NewAccessGate(usage, testLimits)

	assert.NotPanics(t, func() {
		gate.CommitUsage(context.Background(), freeEnt(), db_models.FeatureLesson, time.Now().UTC())
	})
}

func TestUsageSnapshotFreeAccount(t *testing.T) {
	usage := newFakeUsageService()
	gate := NewAccessGate(usage, testLimits)
	ent := freeEnt()
	now := time.Now().UTC()

	gate.CommitUsage(context.Background(), ent, db_models.FeatureLesson, now)
	gate.CommitUsage(context.Background(), ent, db_models.FeatureLesson, now)
	gate.CommitUsage(context.Background(), ent, db_models.FeatureAudio, now)

	snap, err := gate.UsageSnapshot(context.Background(), ent, now)

	require.NoError(t, err)
	require.NotNil(t, snap)
	year, month := utils.PeriodOf(now)
	assert.Equal(t, year, snap.Year)
	assert.Equal(t, month, snap.Month)
	assert.Equal(t, 2, snap.LessonsUsed)
	assert.Equal(t, testLimits.Lessons, snap.LessonsLimit)
	assert.Equal(t, 1, snap.AudioLessonsUsed)
	assert.Equal(t, testLimits.AudioLessons, snap.AudioLimit)
	assert.Equal(t, 0, snap.JourneysUsed)
	assert.Equal(t, testLimits.Journeys, snap.JourneysLimit)
}

func TestUsageSnapshotPremiumHasNoUsage(t *testing.T) {
	gate := NewAccessGate(newFakeUsageService(), testLimits)

	snap, err := gate.UsageSnapshot(context.Background(), premiumEnt(), time.Now().UTC())

	require.NoError(t, err)
	assert.Nil(t, snap)
}
