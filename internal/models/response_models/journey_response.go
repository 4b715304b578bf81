package response_models

import "encoding/json"

type JourneyResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TargetLanguage string `json:"target_language"`
	Level          string `json:"level"`
	CreatedAt      string `json:"created_at"`
}

type JourneyDetailResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	TargetLanguage string           `json:"target_language"`
	Level          string           `json:"level"`
	Outline        json.RawMessage  `json:"outline"`
	Lessons        []LessonResponse `json:"lessons"`
}
