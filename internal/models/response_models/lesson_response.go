package response_models

type LessonResponse struct {
	ID          string `json:"id"`
	JourneyID   string `json:"journey_id,omitempty"`
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Content     string `json:"content,omitempty"`
	AudioStatus string `json:"audio_status"`
	CreatedAt   string `json:"created_at"`
}
