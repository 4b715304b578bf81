package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingo/internal/models/db_models"
	"lingo/internal/models/request_models"
	"lingo/pkg/utils"
)

func newJourneyServiceForTest(repo *fakeJourneyRepo, ent Entitlement, usage *fakeUsageService, planner *fakePlanner) JourneyServiceInterface {
	gate := NewAccessGate(usage, testLimits)
	return NewJourneyService(repo, &fakeEntitlements{ent: ent}, gate, planner)
}

func TestCreateJourneyChargesQuotaAfterSuccess(t *testing.T) {
	repo := &fakeJourneyRepo{}
	usage := newFakeUsageService()
	planner := &fakePlanner{outline: `{"title":"Spanish in 4 weeks","weeks":[]}`}
	accountID := uuid.New().String()
	svc := newJourneyServiceForTest(repo, Entitlement{SubscriptionRef: "free:" + accountID}, usage, planner)

	journey, err := svc.CreateJourney(context.Background(), accountID, request_models.CreateJourneyRequest{
		TargetLanguage: "Spanish",
		Level:          "beginner",
		Goal:           "travel",
	})

	require.NoError(t, err)
	assert.Equal(t, "Spanish in 4 weeks", journey.Title)
	require.Len(t, repo.journeys, 1)

	snapshot, err := usage.GetOrCreateCurrent(context.Background(), "free:"+accountID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.JourneysUsed)
}

func TestCreateJourneyGenerationFailureDoesNotCharge(t *testing.T) {
	repo := &fakeJourneyRepo{}
	usage := newFakeUsageService()
	planner := &fakePlanner{err: context.DeadlineExceeded}
	accountID := uuid.New().String()
	svc := newJourneyServiceForTest(repo, Entitlement{SubscriptionRef: "free:" + accountID}, usage, planner)

	_, err := svc.CreateJourney(context.Background(), accountID, request_models.CreateJourneyRequest{
		TargetLanguage: "French",
		Level:          "beginner",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrGenerationFailed)
	assert.Empty(t, repo.journeys)

	snapshot, err := usage.GetOrCreateCurrent(context.Background(), "free:"+accountID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.JourneysUsed, "a failed generation must not consume quota")
}

func TestCreateJourneyDeniedAtFreeLimit(t *testing.T) {
	repo := &fakeJourneyRepo{}
	usage := newFakeUsageService()
	planner := &fakePlanner{outline: `{"title":"x"}`}
	accountID := uuid.New().String()
	svc := newJourneyServiceForTest(repo, Entitlement{SubscriptionRef: "free:" + accountID}, usage, planner)

	req := request_models.CreateJourneyRequest{TargetLanguage: "German", Level: "intermediate"}
	for i := 0; i < testLimits.Journeys; i++ {
		_, err := svc.CreateJourney(context.Background(), accountID, req)
		require.NoError(t, err)
	}

	_, err := svc.CreateJourney(context.Background(), accountID, req)

	assert.ErrorIs(t, err, utils.ErrLimitExceeded)
	assert.Equal(t, testLimits.Journeys, planner.calls, "the denied request must not reach the planner")
}

func TestCreateJourneyPremiumIsUnlimited(t *testing.T) {
	repo := &fakeJourneyRepo{}
	usage := newFakeUsageService()
	planner := &fakePlanner{outline: `{"title":"x"}`}
	accountID := uuid.New().String()
	svc := newJourneyServiceForTest(repo, Entitlement{IsPremium: true, SubscriptionRef: uuid.New().String()}, usage, planner)

	req := request_models.CreateJourneyRequest{TargetLanguage: "Japanese", Level: "advanced"}
	for i := 0; i < testLimits.Journeys+3; i++ {
		_, err := svc.CreateJourney(context.Background(), accountID, req)
		require.NoError(t, err)
	}

	assert.Len(t, repo.journeys, testLimits.Journeys+3)
	assert.Empty(t, usage.counters, "premium accounts never materialize usage rows")
}

func TestCreateJourneyRejectsBadAccountID(t *testing.T) {
	svc := newJourneyServiceForTest(&fakeJourneyRepo{}, Entitlement{}, newFakeUsageService(), &fakePlanner{outline: "{}"})

	_, err := svc.CreateJourney(context.Background(), "not-a-uuid", request_models.CreateJourneyRequest{
		TargetLanguage: "Italian",
		Level:          "beginner",
	})

	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestCreateJourneyFallbackTitleWhenOutlineHasNone(t *testing.T) {
	repo := &fakeJourneyRepo{}
	planner := &fakePlanner{outline: `{"weeks":[]}`}
	accountID := uuid.New().String()
	svc := newJourneyServiceForTest(repo, Entitlement{SubscriptionRef: "free:" + accountID}, newFakeUsageService(), planner)

	journey, err := svc.CreateJourney(context.Background(), accountID, request_models.CreateJourneyRequest{
		TargetLanguage: "Korean",
		Level:          "beginner",
	})

	require.NoError(t, err)
	assert.Equal(t, "Korean journey (beginner)", journey.Title)
}

func TestGetDetailsInfoOfJourneyByIdNotFound(t *testing.T) {
	svc := newJourneyServiceForTest(&fakeJourneyRepo{}, Entitlement{}, newFakeUsageService(), &fakePlanner{})

	_, err := svc.GetDetailsInfoOfJourneyById(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, utils.ErrJourneyNotFound)
}

func TestGetListOfJourneyByUserId(t *testing.T) {
	repo := &fakeJourneyRepo{}
	accountID := uuid.New()
	require.NoError(t, repo.Insert(context.Background(), &db_models.Journey{
		AccountID: accountID, Title: "one", TargetLanguage: "Spanish", Level: "beginner",
	}))
	require.NoError(t, repo.Insert(context.Background(), &db_models.Journey{
		AccountID: uuid.New(), Title: "other account", TargetLanguage: "French", Level: "beginner",
	}))

	svc := newJourneyServiceForTest(repo, Entitlement{}, newFakeUsageService(), &fakePlanner{})
	journeys, err := svc.GetListOfJourneyByUserId(context.Background(), 1, 10, accountID.String())

	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.Equal(t, "one", journeys[0].Title)
}
