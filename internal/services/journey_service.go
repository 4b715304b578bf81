package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lingo/internal/models/db_models"
	"lingo/internal/models/request_models"
	"lingo/internal/models/response_models"
	"lingo/internal/repositories"
	"lingo/pkg/utils"
)

type JourneyServiceInterface interface {
	CreateJourney(ctx context.Context, accountID string, req request_models.CreateJourneyRequest) (*response_models.JourneyDetailResponse, error)
	GetListOfJourneyByUserId(ctx context.Context, page, pageSize int, accountID string) ([]response_models.JourneyResponse, error)
	GetDetailsInfoOfJourneyById(ctx context.Context, journeyID string) (*response_models.JourneyDetailResponse, error)
}

type JourneyService struct {
	journeyRepo  repositories.JourneyRepository
	entitlements EntitlementServiceInterface
	gate         AccessGateInterface
	planner      utils.JourneyPlannerInterface
}

func NewJourneyService(
	journeyRepo repositories.JourneyRepository,
	entitlements EntitlementServiceInterface,
	gate AccessGateInterface,
	planner utils.JourneyPlannerInterface,
) JourneyServiceInterface {
	return &JourneyService{
		journeyRepo:  journeyRepo,
		entitlements: entitlements,
		gate:         gate,
		planner:      planner,
	}
}

// CreateJourney is the gated flow: resolve entitlement, check the gate,
// generate, persist, and only then commit usage. A generation failure never
// charges the quota.
func (j *JourneyService) CreateJourney(ctx context.Context, accountID string, req request_models.CreateJourneyRequest) (*response_models.JourneyDetailResponse, error) {

	uid, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	ent, err := j.entitlements.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := j.gate.CheckAccess(ctx, ent, db_models.FeatureJourney, now); err != nil {
		return nil, err
	}

	weeks := req.WeekCount
	if weeks <= 0 {
		weeks = 4
	}

	outline, err := j.planner.GenerateOutlineJSON(ctx, req.TargetLanguage, req.Level, req.Goal, weeks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGenerationFailed, err)
	}

	journey := &db_models.Journey{
		AccountID:      uid,
		Title:          outlineTitle(outline, req.TargetLanguage, req.Level),
		TargetLanguage: req.TargetLanguage,
		Level:          req.Level,
		OutlineJSON:    outline,
	}

	if err := j.journeyRepo.Insert(ctx, journey); err != nil {
		return nil, utils.ErrDatabaseError
	}

	j.gate.CommitUsage(ctx, ent, db_models.FeatureJourney, now)

	return toJourneyDetail(journey), nil
}

func outlineTitle(outline, language, level string) string {
	var parsed struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(outline), &parsed); err == nil && parsed.Title != "" {
		return parsed.Title
	}
	return fmt.Sprintf("%s journey (%s)", language, level)
}

func (j *JourneyService) GetListOfJourneyByUserId(
	ctx context.Context, page, pageSize int, accountID string,
) ([]response_models.JourneyResponse, error) {

	journeys, err := j.journeyRepo.GetListOfJourneyByUserId(ctx, page, pageSize, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.JourneyResponse, 0, len(journeys))
	for _, journey := range journeys {
		out = append(out, response_models.JourneyResponse{
			ID:             journey.ID.String(),
			Title:          journey.Title,
			TargetLanguage: journey.TargetLanguage,
			Level:          journey.Level,
			CreatedAt:      utils.FormatRFC3339(utils.FromUnixSeconds(journey.CreatedAt)),
		})
	}

	return out, nil
}

func (j *JourneyService) GetDetailsInfoOfJourneyById(ctx context.Context, journeyID string) (*response_models.JourneyDetailResponse, error) {

	journey, err := j.journeyRepo.GetDetailsOfJourneyById(ctx, journeyID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if journey == nil {
		return nil, utils.ErrJourneyNotFound
	}

	return toJourneyDetail(journey), nil
}

func toJourneyDetail(journey *db_models.Journey) *response_models.JourneyDetailResponse {
	detail := &response_models.JourneyDetailResponse{
		ID:             journey.ID.String(),
		Title:          journey.Title,
		TargetLanguage: journey.TargetLanguage,
		Level:          journey.Level,
		Outline:        json.RawMessage(journey.OutlineJSON),
		Lessons:        make([]response_models.LessonResponse, 0, len(journey.Lessons)),
	}
	for _, lesson := range journey.Lessons {
		detail.Lessons = append(detail.Lessons, response_models.LessonResponse{
			ID:          lesson.ID.String(),
			Title:       lesson.Title,
			Topic:       lesson.Topic,
			AudioStatus: string(lesson.AudioStatus),
			CreatedAt:   utils.FormatRFC3339(utils.FromUnixSeconds(lesson.CreatedAt)),
		})
	}
	return detail
}
