// Package itinerary turns free-form assistant text into the normalized
// day-by-day structure persisted for a trip. Parsing is best effort: lines
// that do not match any known shape are kept as untimed activities rather
// than rejected, so a sloppy model response still yields a usable plan.
package itinerary

import (
	"regexp"
	"strconv"
	"strings"

	"server/internal/domain"
)

var (
	dayHeadingRe = regexp.MustCompile(`(?i)^\s*(?:#+\s*|\*+\s*)?day\s+(\d+)\s*[:\-–]?\s*(.*?)\s*\**\s*$`)
	timedLineRe  = regexp.MustCompile(`(?i)^\s*(?:[-•*]\s*)?(\d{1,2}[:.]\d{2}\s*(?:am|pm)?|\d{1,2}\s*(?:am|pm)|morning|afternoon|evening|night)\s*[:\-–]\s*(.+)$`)
	bulletRe     = regexp.MustCompile(`^\s*[-•*]\s+(.+)$`)
	placeRe      = regexp.MustCompile(`(?i)\s+(?:at|@)\s+([A-Z][\w'&. ]{2,40})$`)
)

// Parse extracts itinerary days from assistant output. The returned slice is
// never nil for non-empty input that contains at least one recognizable line;
// input with no structure at all yields a single day holding the raw lines.
func Parse(text string) []domain.Day {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var (
		days    []domain.Day
		current *domain.Day
	)
	ensureDay := func() *domain.Day {
		if current == nil {
			days = append(days, domain.Day{Number: len(days) + 1})
			current = &days[len(days)-1]
		}
		return current
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || isNoise(line) {
			continue
		}

		if m := dayHeadingRe.FindStringSubmatch(line); m != nil {
			number, _ := strconv.Atoi(m[1])
			days = append(days, domain.Day{
				Number: number,
				Title:  cleanTitle(m[2]),
			})
			current = &days[len(days)-1]
			continue
		}

		activity, ok := parseActivityLine(line)
		if !ok {
			continue
		}
		day := ensureDay()
		day.Activities = append(day.Activities, activity)
	}

	renumber(days)
	return days
}

func parseActivityLine(line string) (domain.Activity, bool) {
	if m := timedLineRe.FindStringSubmatch(line); m != nil {
		desc, place := splitPlace(strings.TrimSpace(m[2]))
		if desc == "" {
			return domain.Activity{}, false
		}
		return domain.Activity{Time: normalizeTime(m[1]), Description: desc, Place: place}, true
	}
	if m := bulletRe.FindStringSubmatch(line); m != nil {
		desc, place := splitPlace(strings.TrimSpace(m[1]))
		if desc == "" {
			return domain.Activity{}, false
		}
		return domain.Activity{Description: desc, Place: place}, true
	}
	// Plain prose line. Headings and sign-off chatter are filtered by
	// isNoise; anything left is treated as an untimed activity.
	desc, place := splitPlace(line)
	if len(desc) < 3 {
		return domain.Activity{}, false
	}
	return domain.Activity{Description: desc, Place: place}, true
}

func splitPlace(s string) (string, string) {
	s = strings.TrimRight(strings.TrimSpace(s), ".")
	if m := placeRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(strings.TrimSuffix(s, m[0])), strings.TrimSpace(m[1])
	}
	return s, ""
}

func normalizeTime(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch lower {
	case "morning", "afternoon", "evening", "night":
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
	s = strings.ReplaceAll(s, ".", ":")
	s = strings.ToUpper(s)
	// "9 AM" and "9:00AM" both normalize to "9:00 AM".
	s = strings.ReplaceAll(s, "AM", " AM")
	s = strings.ReplaceAll(s, "PM", " PM")
	fields := strings.Fields(s)
	if len(fields) > 0 && !strings.Contains(fields[0], ":") {
		fields[0] += ":00"
	}
	return strings.Join(fields, " ")
}

func cleanTitle(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "*#_")
	return strings.TrimSpace(s)
}

// isNoise filters greetings and markdown scaffolding the assistant wraps
// around the actual plan.
func isNoise(line string) bool {
	lower := strings.ToLower(strings.Trim(line, "*#_- "))
	if lower == "" {
		return true
	}
	prefixes := []string{
		"here is", "here's", "sure", "of course", "certainly",
		"enjoy your", "have a great", "let me know", "hope this helps",
		"itinerary for", "your itinerary",
	}
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return strings.HasPrefix(lower, "```")
}

// renumber forces a strict 1..n sequence, whatever numbering the assistant
// emitted. Positional day lookup depends on it.
func renumber(days []domain.Day) {
	for i := range days {
		days[i].Number = i + 1
	}
}
