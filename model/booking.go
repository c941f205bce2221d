package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingPaid      BookingStatus = "PAID"
	BookingPastDue   BookingStatus = "PASTDUE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
	BookingReturned  BookingStatus = "RETURNED"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingPaid, BookingPastDue,
		BookingCompleted, BookingCancelled, BookingExpired, BookingReturned:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCancelled, BookingExpired, BookingCompleted, BookingReturned:
		return true
	}
	return false
}

// Booking reserves Quantity units of one item over [StartDate, EndDate]
// inclusive. A PENDING booking blocks inventory only until ExpiresAt.
type Booking struct {
	ID         int64         `json:"id"`
	UserID     int64         `json:"user_id"`
	ItemID     int64         `json:"item_id"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	Quantity   int           `json:"quantity"`
	TotalPrice float64       `json:"total_price"`
	Status     BookingStatus `json:"status"`
	Paid       bool          `json:"paid"`
	ExpiresAt  *time.Time    `json:"expires_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Availability is the result of a single availability check. Error marks a
// normal "could not determine, treat as unavailable" outcome, not a fault.
type Availability struct {
	Available         bool   `json:"available"`
	AvailableQuantity int    `json:"available_quantity"`
	TotalQuantity     int    `json:"total_quantity"`
	RequestedQuantity int    `json:"requested_quantity"`
	CanFulfill        bool   `json:"can_fulfill"`
	ConfirmedReserved int    `json:"confirmed_reserved"`
	PendingReserved   int    `json:"pending_reserved"`
	ExpiringSoon      int    `json:"expiring_soon"`
	Error             string `json:"error,omitempty"`
}

type DayAvailability struct {
	AvailableQuantity int  `json:"available_quantity"`
	TotalQuantity     int  `json:"total_quantity"`
	IsAvailable       bool `json:"is_available"`
}

type BookingStats struct {
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	PaidBookings      int64   `json:"paid_bookings"`
	PastDueBookings   int64   `json:"pastdue_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	ExpiredBookings   int64   `json:"expired_bookings"`
	ReturnedBookings  int64   `json:"returned_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}
