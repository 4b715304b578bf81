package db_models

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"unique"`
	PasswordHash string
	Role         string `gorm:"default:user"`

	// Denormalized entitlement cache. Written only after a successful
	// verification or reconciliation, read for display purposes. Access
	// decisions never trust these fields directly.
	IsPremium     bool `gorm:"default:false"`
	PremiumExpiry *int64

	Journeys []Journey
}
