package db_models

// UsagePeriod holds per-feature counters for one subscription identity and
// one UTC calendar month. SubscriptionRef is either a subscription row's uuid
// or the virtual free-tier identity "free:<account-id>", so free users are
// metered through the same keying scheme.
//
// At most one row per (ref, year, month); counters only ever go up. A new
// month means a new row, never a reset in place; there is no scheduler.
// Feature is the closed set of metered operations. Extending it means
// extending the counter columns and the limit table in lockstep.
type Feature string

const (
	FeatureJourney Feature = "journey"
	FeatureLesson  Feature = "lesson"
	FeatureAudio   Feature = "audio"
)

type UsagePeriod struct {
	BaseModel
	SubscriptionRef string `gorm:"uniqueIndex:idx_usage_period,priority:1;size:80"`
	Year            int    `gorm:"uniqueIndex:idx_usage_period,priority:2"`
	Month           int    `gorm:"uniqueIndex:idx_usage_period,priority:3"`

	JourneysUsed     int `gorm:"default:0"`
	LessonsUsed      int `gorm:"default:0"`
	AudioLessonsUsed int `gorm:"default:0"`
}
