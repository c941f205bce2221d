package model

import "time"

type PaymentMethod string

const (
	PaymentCC       PaymentMethod = "CC"
	PaymentQRIS     PaymentMethod = "QRIS"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentCash     PaymentMethod = "CASH"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCC, PaymentQRIS, PaymentTransfer, PaymentCash:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentRent PaymentType = "RENT"
	PaymentFine PaymentType = "FINE"
)

func (t PaymentType) Valid() bool { return t == PaymentRent || t == PaymentFine }

// Payment settles one or more bookings atomically. BookingIDs is stored as
// a JSONB array, matching the many-to-few shape of the settlement.
type Payment struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	BookingIDs  []int64       `json:"booking_ids"`
	TotalPrice  float64       `json:"total_price"`
	Method      PaymentMethod `json:"payment_method"`
	Type        PaymentType   `json:"payment_type"`
	PaymentDate time.Time     `json:"payment_date"`
}
