// Package entitlement answers tier-gating questions for the image pipeline.
package entitlement

import "server/internal/domain"

// CanUseAI reports whether a request may invoke paid AI image providers.
// It is a pure function of the tier's feature flags and the caller's
// preference: a false preferAI always wins, regardless of what the tier
// would allow.
func CanUseAI(tier domain.Tier, preferAI bool) bool {
	if !preferAI {
		return false
	}
	return domain.TierFeatures(tier).AIImages
}

// AIProviderFor names the AI provider a tier is entitled to. Premium users
// get the higher-quality Imagen model, pro users get Seedream. Empty for
// tiers without AI access.
func AIProviderFor(tier domain.Tier) string {
	switch tier {
	case domain.TierPremium:
		return "gemini"
	case domain.TierPro:
		return "seedream"
	default:
		return ""
	}
}

// CanExportStory reports whether the tier may render story slides.
func CanExportStory(tier domain.Tier) bool {
	return domain.TierFeatures(tier).StoryExport
}

// MaxDays caps itinerary length for the tier.
func MaxDays(tier domain.Tier) int {
	return domain.TierFeatures(tier).MaxDays
}
