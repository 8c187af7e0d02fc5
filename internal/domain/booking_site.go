package domain

// BookingSite is a channel through which a traveler booked their stay
// (e.g. "Airbnb"). Sites are seeded by migration and referenced by ID from the form.
type BookingSite struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
