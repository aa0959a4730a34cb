package entitlement

import (
	"testing"

	"server/internal/domain"
)

func TestCanUseAI(t *testing.T) {
	cases := []struct {
		name     string
		tier     domain.Tier
		preferAI bool
		want     bool
	}{
		{"free prefers ai", domain.TierFree, true, false},
		{"free no preference", domain.TierFree, false, false},
		{"pro prefers ai", domain.TierPro, true, true},
		{"pro opted out", domain.TierPro, false, false},
		{"premium prefers ai", domain.TierPremium, true, true},
		{"premium opted out", domain.TierPremium, false, false},
		{"unknown tier", domain.Tier("enterprise"), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanUseAI(tc.tier, tc.preferAI); got != tc.want {
				t.Fatalf("CanUseAI(%q, %v) = %v, want %v", tc.tier, tc.preferAI, got, tc.want)
			}
		})
	}
}

func TestAIProviderFor(t *testing.T) {
	if got := AIProviderFor(domain.TierPremium); got != "gemini" {
		t.Fatalf("premium provider = %q", got)
	}
	if got := AIProviderFor(domain.TierPro); got != "seedream" {
		t.Fatalf("pro provider = %q", got)
	}
	if got := AIProviderFor(domain.TierFree); got != "" {
		t.Fatalf("free provider = %q", got)
	}
}
