package bookingsvc

import (
	"context"

	"github.com/alfifrr/werent-backend-sub000/model"
)

// userTransitions is the closed set of status changes a regular user may
// request on their own booking.
var userTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCancelled, model.BookingReturned},
}

// transitionAllowed consults the (from, to, actor-role) table. Admins may
// move a booking between any two distinct statuses as long as the current
// one is not terminal.
func transitionAllowed(from, to model.BookingStatus, admin bool) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	if from.Terminal() {
		return false
	}
	if admin {
		return true
	}
	for _, t := range userTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *service) UpdateStatus(ctx context.Context, bookingID, actorID int64, newStatus model.BookingStatus) (*model.Booking, error) {
	if !newStatus.Valid() {
		return nil, makeErrf(ErrInvalidInput, "unknown status %q", string(newStatus))
	}

	b, err := s.r.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrNotFound)
	}

	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if b.UserID != actorID && !admin {
		return nil, makeErr(ErrForbidden)
	}

	if !transitionAllowed(b.Status, newStatus, admin) {
		return nil, makeErrf(ErrInvalidTransition,
			"status change from %s to %s is not allowed", b.Status, newStatus)
	}

	now := s.now().UTC()
	var paid *bool
	if newStatus == model.BookingPaid {
		t := true
		paid = &t
	}
	if err := s.r.UpdateStatus(ctx, bookingID, newStatus, paid, now); err != nil {
		return nil, err
	}

	b.Status = newStatus
	if paid != nil {
		b.Paid = *paid
	}
	b.UpdatedAt = now
	return b, nil
}
