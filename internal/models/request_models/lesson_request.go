package request_models

type CreateLessonRequest struct {
	JourneyID string `json:"journey_id"`
	Topic     string `json:"topic" binding:"required"`
	Language  string `json:"language" binding:"required"`
	Level     string `json:"level"`
}
