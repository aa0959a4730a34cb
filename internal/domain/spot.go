package domain

import "time"

// Spot is a curated "local spot" surfaced alongside itineraries.
type Spot struct {
	ID          string    `json:"id"`
	City        string    `json:"city"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	BookingSlug string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingURL builds the affiliate deep link for the spot, localized to the
// visitor's country when known.
func (s Spot) BookingURL(countryCode string) string {
	if s.BookingSlug == "" {
		return ""
	}
	url := "https://partner.example-booking.com/" + s.BookingSlug
	if countryCode != "" {
		url += "?market=" + countryCode
	}
	return url
}
