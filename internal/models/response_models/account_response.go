package response_models

type AccountResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	IsPremium     bool   `json:"is_premium"`
	PremiumExpiry string `json:"premium_expiry,omitempty"`
}
