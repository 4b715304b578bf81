package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"lingo/internal/models/db_models"
)

type JourneyRepository interface {
	Insert(ctx context.Context, journey *db_models.Journey) error
	GetListOfJourneyByUserId(ctx context.Context, page, pageSize int, accountID string) ([]db_models.Journey, error)
	GetDetailsOfJourneyById(ctx context.Context, journeyID string) (*db_models.Journey, error)
}

type journeyRepository struct {
	db *gorm.DB
}

func NewJourneyRepository(db *gorm.DB) JourneyRepository {
	return &journeyRepository{
		db: db,
	}
}

func (j *journeyRepository) Insert(ctx context.Context, journey *db_models.Journey) error {
	return j.db.WithContext(ctx).Create(journey).Error
}

func (j *journeyRepository) GetListOfJourneyByUserId(ctx context.Context, page, pageSize int, accountID string) ([]db_models.Journey, error) {

	var journeys []db_models.Journey
	err := j.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Scopes(func(db *gorm.DB) *gorm.DB {
			offset := (page - 1) * pageSize
			return db.Offset(offset).Limit(pageSize)
		}).
		Find(&journeys).Error
	if err != nil {
		return nil, err
	}
	return journeys, nil
}

func (j *journeyRepository) GetDetailsOfJourneyById(ctx context.Context, journeyID string) (*db_models.Journey, error) {

	var journey db_models.Journey
	err := j.db.WithContext(ctx).
		Preload("Lessons").
		First(&journey, "id = ?", journeyID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &journey, nil
}
