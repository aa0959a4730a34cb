package domain

import "time"

// Tier enumerates subscription levels.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// NormalizeTier sanitizes free-form tier input into a supported value.
func NormalizeTier(s string) Tier {
	switch Tier(s) {
	case TierPro:
		return TierPro
	case TierPremium:
		return TierPremium
	default:
		return TierFree
	}
}

// Features describes what a subscription tier unlocks.
type Features struct {
	AIImages       bool
	StoryExport    bool
	MaxDays        int
	MaxItineraries int
}

// TierFeatures returns the feature matrix for a tier.
func TierFeatures(t Tier) Features {
	switch t {
	case TierPremium:
		return Features{AIImages: true, StoryExport: true, MaxDays: 14, MaxItineraries: 100}
	case TierPro:
		return Features{AIImages: true, StoryExport: true, MaxDays: 7, MaxItineraries: 25}
	default:
		return Features{AIImages: false, StoryExport: true, MaxDays: 3, MaxItineraries: 3}
	}
}

// User represents an authenticated account within the platform.
type User struct {
	ID        string
	Email     string
	Name      string
	Locale    string
	Tier      Tier
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFree reports whether the user is on the free tier.
func (u User) IsFree() bool {
	return u.Tier == TierFree || u.Tier == ""
}
