package repositories

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"lingo/internal/models/db_models"
)

type LessonRepository interface {
	Insert(ctx context.Context, lesson *db_models.Lesson) error
	Update(ctx context.Context, lesson *db_models.Lesson) error
	GetLessonById(ctx context.Context, lessonID string) (*db_models.Lesson, error)
	GetRelatedByVector(ctx context.Context, vector pgvector.Vector, excludeID string) ([]db_models.Lesson, error)
}

type lessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{
		db: db,
	}
}

func (l *lessonRepository) Insert(ctx context.Context, lesson *db_models.Lesson) error {
	return l.db.WithContext(ctx).Create(lesson).Error
}

func (l *lessonRepository) Update(ctx context.Context, lesson *db_models.Lesson) error {
	return l.db.WithContext(ctx).Save(lesson).Error
}

func (l *lessonRepository) GetLessonById(ctx context.Context, lessonID string) (*db_models.Lesson, error) {

	var lesson db_models.Lesson
	err := l.db.WithContext(ctx).First(&lesson, "id = ?", lessonID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &lesson, nil
}

func (l *lessonRepository) GetRelatedByVector(ctx context.Context, vector pgvector.Vector, excludeID string) ([]db_models.Lesson, error) {
	var results []db_models.Lesson

	vecStr := vector.String()

	query := `
        SELECT *, (1 - (embedding <=> $1)) as similarity
        FROM lessons
        WHERE id <> $2
          AND deleted_at IS NULL
          AND (1 - (embedding <=> $1)) > 0.7  -- Only return results with >70% similarity
        ORDER BY embedding <=> $1  -- Cosine distance (closer to 0 is better)
        LIMIT 10
    `

	err := l.db.WithContext(ctx).Raw(query, vecStr, excludeID).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
