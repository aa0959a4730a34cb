package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownItinerary(t *testing.T) {
	text := `Sure! Here is a 2-day plan for Seoul.

## Day 1: Palaces and Markets
- 9:00 AM - Gyeongbokgung Palace tour
- 1:00 PM - Lunch at Gwangjang Market
- Evening - N Seoul Tower at Namsan

## Day 2
- Morning - Bukchon Hanok Village walk
- 3 PM - Shopping in Myeongdong

Enjoy your trip!`

	days := Parse(text)
	require.Len(t, days, 2)

	assert.Equal(t, 1, days[0].Number)
	assert.Equal(t, "Palaces and Markets", days[0].Title)
	require.Len(t, days[0].Activities, 3)
	assert.Equal(t, "9:00 AM", days[0].Activities[0].Time)
	assert.Equal(t, "Gyeongbokgung Palace tour", days[0].Activities[0].Description)
	assert.Equal(t, "Lunch", days[0].Activities[1].Description)
	assert.Equal(t, "Gwangjang Market", days[0].Activities[1].Place)
	assert.Equal(t, "Evening", days[0].Activities[2].Time)

	assert.Equal(t, 2, days[1].Number)
	require.Len(t, days[1].Activities, 2)
	assert.Equal(t, "3:00 PM", days[1].Activities[1].Time)
}

func TestParseWithoutHeadings(t *testing.T) {
	text := "- Visit the old harbor\n- Dinner at Fisketorget"
	days := Parse(text)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Number)
	require.Len(t, days[0].Activities, 2)
	assert.Equal(t, "Fisketorget", days[0].Activities[1].Place)
}

func TestParseSkipsChatter(t *testing.T) {
	text := "Of course! Here's your itinerary.\n\nDay 1\n- 10:00 - City museum\n\nLet me know if you want changes."
	days := Parse(text)
	require.Len(t, days, 1)
	require.Len(t, days[0].Activities, 1)
	assert.Equal(t, "City museum", days[0].Activities[0].Description)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n  \n"))
}

func TestParseRenumbersDuplicateDays(t *testing.T) {
	text := "Day 1\n- Walk\nDay 1\n- Eat"
	days := Parse(text)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Number)
	assert.Equal(t, 2, days[1].Number)
}

func TestParseRenumbersOutOfOrderDays(t *testing.T) {
	text := "Day 3: Islands\n- Ferry to Lantau\nDay 1: Arrival\n- Check in"
	days := Parse(text)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Number)
	assert.Equal(t, "Islands", days[0].Title)
	assert.Equal(t, 2, days[1].Number)
	assert.Equal(t, "Arrival", days[1].Title)
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"9:00 AM":   "9:00 AM",
		"9 am":      "9:00 AM",
		"14.30":     "14:30",
		"evening":   "Evening",
		"11:15pm":   "11:15 PM",
		"Afternoon": "Afternoon",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeTime(in), "input %q", in)
	}
}
