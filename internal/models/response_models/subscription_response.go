package response_models

type SubscriptionResponse struct {
	IsPremium bool   `json:"is_premium"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Status    string `json:"status,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	AutoRenew bool   `json:"auto_renew"`
}

type EntitlementResponse struct {
	IsPremium bool           `json:"is_premium"`
	ExpiresAt string         `json:"expires_at,omitempty"`
	Usage     *UsageResponse `json:"usage,omitempty"`
}

type UsageResponse struct {
	Year             int `json:"year"`
	Month            int `json:"month"`
	JourneysUsed     int `json:"journeys_used"`
	JourneysLimit    int `json:"journeys_limit"`
	LessonsUsed      int `json:"lessons_used"`
	LessonsLimit     int `json:"lessons_limit"`
	AudioLessonsUsed int `json:"audio_lessons_used"`
	AudioLimit       int `json:"audio_limit"`
}
