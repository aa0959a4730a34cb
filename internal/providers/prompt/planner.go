package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlanRequest describes the trip the assistant should plan.
type PlanRequest struct {
	City      string
	Country   string
	Days      int
	Interests []string
	Locale    string
}

// PlanResponse carries the assistant's itinerary text plus a display title.
type PlanResponse struct {
	Title    string
	Text     string
	Provider string
}

// Planner produces day-by-day itinerary text for a destination.
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error)
}

// StaticPlanner is the zero-credential fallback: a template itinerary that
// keeps the product usable when no LLM is configured.
type StaticPlanner struct{}

func NewStaticPlanner() *StaticPlanner {
	return &StaticPlanner{}
}

func (s *StaticPlanner) Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error) {
	city := cases.Title(language.Und).String(strings.TrimSpace(req.City))
	if city == "" {
		city = "Your Destination"
	}
	days := req.Days
	if days <= 0 {
		days = 3
	}

	var b strings.Builder
	for day := 1; day <= days; day++ {
		fmt.Fprintf(&b, "Day %d\n", day)
		fmt.Fprintf(&b, "Morning - Explore the historic center of %s\n", city)
		if len(req.Interests) > 0 {
			interest := req.Interests[(day-1)%len(req.Interests)]
			fmt.Fprintf(&b, "Afternoon - %s experience in %s\n", cases.Title(language.Und).String(interest), city)
		} else {
			fmt.Fprintf(&b, "Afternoon - Visit a local market\n")
		}
		fmt.Fprintf(&b, "Evening - Dinner at a neighborhood favorite\n")
		if day < days {
			b.WriteString("\n")
		}
	}

	return &PlanResponse{
		Title:    fmt.Sprintf("%d Days in %s", days, city),
		Text:     b.String(),
		Provider: staticProviderName,
	}, nil
}

var _ Planner = (*StaticPlanner)(nil)
