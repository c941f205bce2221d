package model

import "time"

// Item is a rentable good. Quantity is the hard ceiling on simultaneous
// overlapping reservations.
type Item struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PricePerDay float64   `json:"price_per_day"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}
