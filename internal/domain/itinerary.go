package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Activity is a single scheduled entry within an itinerary day.
type Activity struct {
	Time        string `json:"time,omitempty"`
	Description string `json:"description"`
	Place       string `json:"place,omitempty"`
}

// Day groups the activities planned for one calendar day.
type Day struct {
	Number     int        `json:"number"`
	Title      string     `json:"title,omitempty"`
	Activities []Activity `json:"activities"`
}

// Itinerary is the normalized trip plan persisted for a user.
type Itinerary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	City      string    `json:"city"`
	Country   string    `json:"country,omitempty"`
	Title     string    `json:"title"`
	Interests []string  `json:"interests,omitempty"`
	Days      []Day     `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DayCount reports how many days the itinerary spans.
func (it Itinerary) DayCount() int {
	return len(it.Days)
}

// Day returns the 1-based day, or false when out of range.
func (it Itinerary) Day(number int) (Day, bool) {
	if number < 1 || number > len(it.Days) {
		return Day{}, false
	}
	return it.Days[number-1], true
}

// NormalizeDays converts the historical shapes of the stored "days" column
// into the canonical []Day structure. Stored payloads may be a plain string
// blob, an array of strings (one per day), or an array of day objects whose
// activities are themselves either strings or objects. All shape sniffing
// lives here so consumers only ever see []Day.
func NormalizeDays(raw json.RawMessage) ([]Day, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	// Shape 1: a single text blob.
	var blob string
	if err := json.Unmarshal(raw, &blob); err == nil {
		return daysFromStrings(splitDayBlob(blob)), nil
	}

	// Shape 2: an array of strings.
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return daysFromStrings(lines), nil
	}

	// Shape 3: an array of day objects.
	var objs []rawDay
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil, fmt.Errorf("itinerary days: unrecognized shape: %w", err)
	}
	days := make([]Day, 0, len(objs))
	for i, obj := range objs {
		day := Day{
			Number: obj.Number,
			Title:  strings.TrimSpace(obj.Title),
		}
		if day.Number <= 0 {
			day.Number = i + 1
		}
		for _, act := range obj.Activities {
			if a, ok := act.toActivity(); ok {
				day.Activities = append(day.Activities, a)
			}
		}
		days = append(days, day)
	}
	return days, nil
}

type rawDay struct {
	Number     int           `json:"number"`
	Day        int           `json:"day"`
	Title      string        `json:"title"`
	Activities []rawActivity `json:"activities"`
}

func (d *rawDay) UnmarshalJSON(data []byte) error {
	type alias rawDay
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = rawDay(a)
	if d.Number == 0 {
		d.Number = d.Day
	}
	return nil
}

// rawActivity tolerates both `"9:00 AM - Museum"` and
// `{"time":"9:00 AM","description":"Museum"}`.
type rawActivity struct {
	Time        string
	Description string
	Place       string
}

func (a *rawActivity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Time, a.Description = splitTimePrefix(s)
		return nil
	}
	var obj struct {
		Time        string `json:"time"`
		Description string `json:"description"`
		Activity    string `json:"activity"`
		Place       string `json:"place"`
		Location    string `json:"location"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	a.Time = strings.TrimSpace(obj.Time)
	a.Description = strings.TrimSpace(obj.Description)
	if a.Description == "" {
		a.Description = strings.TrimSpace(obj.Activity)
	}
	a.Place = strings.TrimSpace(obj.Place)
	if a.Place == "" {
		a.Place = strings.TrimSpace(obj.Location)
	}
	return nil
}

func (a rawActivity) toActivity() (Activity, bool) {
	if a.Description == "" {
		return Activity{}, false
	}
	return Activity{Time: a.Time, Description: a.Description, Place: a.Place}, true
}

func daysFromStrings(lines []string) []Day {
	var days []Day
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		day := Day{Number: i + 1}
		for _, part := range strings.Split(line, "\n") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, desc := splitTimePrefix(part)
			if desc == "" {
				continue
			}
			day.Activities = append(day.Activities, Activity{Time: t, Description: desc})
		}
		days = append(days, day)
	}
	return days
}

// splitDayBlob breaks a single text blob on "Day N" headings.
func splitDayBlob(blob string) []string {
	var (
		chunks  []string
		current []string
	)
	for _, line := range strings.Split(blob, "\n") {
		if isDayHeading(line) && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = current[:0]
		}
		if isDayHeading(line) {
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	if len(chunks) == 0 && strings.TrimSpace(blob) != "" {
		chunks = append(chunks, blob)
	}
	return chunks
}

func isDayHeading(line string) bool {
	line = strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#* ")))
	if !strings.HasPrefix(line, "day ") {
		return false
	}
	rest := strings.TrimPrefix(line, "day ")
	if rest == "" {
		return false
	}
	return rest[0] >= '0' && rest[0] <= '9'
}

// splitTimePrefix extracts a leading "9:00 AM - " style prefix when present.
func splitTimePrefix(s string) (string, string) {
	s = strings.TrimSpace(strings.TrimLeft(s, "-•* "))
	for _, sep := range []string{" - ", " – ", ": "} {
		idx := strings.Index(s, sep)
		if idx <= 0 {
			continue
		}
		prefix := s[:idx]
		if looksLikeTime(prefix) {
			return strings.TrimSpace(prefix), strings.TrimSpace(s[idx+len(sep):])
		}
	}
	return "", s
}

func looksLikeTime(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "morning" || s == "afternoon" || s == "evening" || s == "night" {
		return true
	}
	digits := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == ':' || r == '.' || r == ' ':
		case r == 'a' || r == 'p' || r == 'm' || r == 'h':
		default:
			return false
		}
	}
	return digits
}
