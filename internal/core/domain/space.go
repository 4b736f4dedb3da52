package domain

import "time"

// Space is a rentable storage resource listed by its owner. Only the fields
// the booking flow reads are modelled here; listing details (photos,
// amenities, location) live outside this core.
type Space struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserID     string    `json:"user_id" bson:"user_id"` // owner
	CategoryID string    `json:"category_id" bson:"category_id"`
	RateHour   float64   `json:"rate_hour" bson:"rate_hour"`
	Available  bool      `json:"available" bson:"available"`
	Managers   []string  `json:"managers" bson:"managers"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
