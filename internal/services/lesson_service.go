package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lingo/internal/models/db_models"
	"lingo/internal/models/request_models"
	"lingo/internal/models/response_models"
	"lingo/internal/repositories"
	"lingo/pkg/utils"
)

type LessonServiceInterface interface {
	CreateLesson(ctx context.Context, accountID string, req request_models.CreateLessonRequest) (*response_models.LessonResponse, error)
	CreateAudioLesson(ctx context.Context, accountID, lessonID string) (*response_models.LessonResponse, error)
	GetLessonById(ctx context.Context, lessonID string) (*response_models.LessonResponse, error)
	GetRelatedLessons(ctx context.Context, lessonID string) ([]response_models.LessonResponse, error)
}

type LessonService struct {
	lessonRepo   repositories.LessonRepository
	entitlements EntitlementServiceInterface
	gate         AccessGateInterface
	generator    utils.LessonGeneratorInterface
}

func NewLessonService(
	lessonRepo repositories.LessonRepository,
	entitlements EntitlementServiceInterface,
	gate AccessGateInterface,
	generator utils.LessonGeneratorInterface,
) LessonServiceInterface {
	return &LessonService{
		lessonRepo:   lessonRepo,
		entitlements: entitlements,
		gate:         gate,
		generator:    generator,
	}
}

func (l *LessonService) CreateLesson(ctx context.Context, accountID string, req request_models.CreateLessonRequest) (*response_models.LessonResponse, error) {

	uid, err := uuid.Parse(accountID)
	if err != nil {
		return nil, utils.ErrInvalidInput
	}

	var journeyID *uuid.UUID
	if req.JourneyID != "" {
		jid, err := uuid.Parse(req.JourneyID)
		if err != nil {
			return nil, utils.ErrInvalidInput
		}
		journeyID = &jid
	}

	ent, err := l.entitlements.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := l.gate.CheckAccess(ctx, ent, db_models.FeatureLesson, now); err != nil {
		return nil, err
	}

	title, content, err := l.generator.GenerateLesson(ctx, req.Topic, req.Language, req.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGenerationFailed, err)
	}

	lesson := &db_models.Lesson{
		AccountID:   uid,
		JourneyID:   journeyID,
		Title:       title,
		Topic:       req.Topic,
		Content:     content,
		AudioStatus: db_models.AudioStatusNone,
	}

	// Embedding is for the related-lesson lookup only; losing it should not
	// lose the lesson.
	if embedding, err := l.generator.GetEmbedding(ctx, title+"\n"+req.Topic); err == nil {
		lesson.Embedding = embedding
	} else {
		log.Printf("Embedding generation failed for lesson %q: %v", title, err)
	}

	if err := l.lessonRepo.Insert(ctx, lesson); err != nil {
		return nil, utils.ErrDatabaseError
	}

	l.gate.CommitUsage(ctx, ent, db_models.FeatureLesson, now)

	return toLessonResponse(lesson, true), nil
}

// CreateAudioLesson meters the audio feature separately from the lesson that
// carries the script. The TTS render and upload happen outside this service;
// we store the narration script and mark the audio pending.
func (l *LessonService) CreateAudioLesson(ctx context.Context, accountID, lessonID string) (*response_models.LessonResponse, error) {

	lesson, err := l.lessonRepo.GetLessonById(ctx, lessonID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if lesson == nil || lesson.AccountID.String() != accountID {
		return nil, utils.ErrLessonNotFound
	}

	ent, err := l.entitlements.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := l.gate.CheckAccess(ctx, ent, db_models.FeatureAudio, now); err != nil {
		return nil, err
	}

	script, err := l.generator.GenerateAudioScript(ctx, lesson.Title, lesson.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrGenerationFailed, err)
	}

	lesson.AudioScript = script
	lesson.AudioStatus = db_models.AudioStatusPending

	if err := l.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, utils.ErrDatabaseError
	}

	l.gate.CommitUsage(ctx, ent, db_models.FeatureAudio, now)

	return toLessonResponse(lesson, false), nil
}

func (l *LessonService) GetLessonById(ctx context.Context, lessonID string) (*response_models.LessonResponse, error) {

	lesson, err := l.lessonRepo.GetLessonById(ctx, lessonID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if lesson == nil {
		return nil, utils.ErrLessonNotFound
	}

	return toLessonResponse(lesson, true), nil
}

func (l *LessonService) GetRelatedLessons(ctx context.Context, lessonID string) ([]response_models.LessonResponse, error) {

	lesson, err := l.lessonRepo.GetLessonById(ctx, lessonID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if lesson == nil {
		return nil, utils.ErrLessonNotFound
	}

	related, err := l.lessonRepo.GetRelatedByVector(ctx, lesson.Embedding, lessonID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.LessonResponse, 0, len(related))
	for i := range related {
		out = append(out, *toLessonResponse(&related[i], false))
	}

	return out, nil
}

func toLessonResponse(lesson *db_models.Lesson, includeContent bool) *response_models.LessonResponse {
	resp := &response_models.LessonResponse{
		ID:          lesson.ID.String(),
		Title:       lesson.Title,
		Topic:       lesson.Topic,
		AudioStatus: string(lesson.AudioStatus),
		CreatedAt:   utils.FormatRFC3339(utils.FromUnixSeconds(lesson.CreatedAt)),
	}
	if lesson.JourneyID != nil {
		resp.JourneyID = lesson.JourneyID.String()
	}
	if includeContent {
		resp.Content = lesson.Content
	}
	return resp
}
