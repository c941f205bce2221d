package model

// AdminStats is the admin dashboard payload: lifetime totals plus the
// last-7-days slice of each figure.
type AdminStats struct {
	TotalUsers    int64       `json:"total_users"`
	TotalItems    int64       `json:"total_items"`
	TotalBookings int64       `json:"total_bookings"`
	TotalRevenue  float64     `json:"total_revenue"`
	TotalReviews  int64       `json:"total_reviews"`
	TotalTickets  int64       `json:"total_tickets"`
	Weekly        WeeklyStats `json:"weekly"`
}

type WeeklyStats struct {
	Users    int64   `json:"users"`
	Items    int64   `json:"items"`
	Bookings int64   `json:"bookings"`
	Revenue  float64 `json:"revenue"`
	Reviews  int64   `json:"reviews"`
	Tickets  int64   `json:"tickets"`
}
