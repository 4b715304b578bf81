package request_models

type CreateJourneyRequest struct {
	TargetLanguage string `json:"target_language" binding:"required"`
	Level          string `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Goal           string `json:"goal"`
	WeekCount      int    `json:"week_count"`
}
