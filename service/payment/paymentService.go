package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alfifrr/werent-backend-sub000/model"
	bookingrepo "github.com/alfifrr/werent-backend-sub000/repository/booking"
	paymentrepo "github.com/alfifrr/werent-backend-sub000/repository/payment"
	userrepo "github.com/alfifrr/werent-backend-sub000/repository/user"
)

type ErrCode string

const (
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrNotVerified     ErrCode = "NOT_VERIFIED"
	ErrInvalidInput    ErrCode = "INVALID_INPUT"
	ErrAmountMismatch  ErrCode = "AMOUNT_MISMATCH"
	ErrBookingNotFound ErrCode = "BOOKING_NOT_FOUND"
	ErrWrongStatus     ErrCode = "WRONG_STATUS"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }
func makeErrf(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	// Create settles the referenced bookings atomically: a RENT payment
	// flips PENDING/CONFIRMED bookings to PAID, a FINE payment flips
	// PASTDUE bookings to RETURNED. Both set the paid flag.
	Create(ctx context.Context, userID int64, bookingIDs []int64, method model.PaymentMethod, ptype model.PaymentType, total float64) (*model.Payment, error)

	Get(ctx context.Context, paymentID, actorID int64) (*model.Payment, error)
	ListFor(ctx context.Context, actorID int64) ([]model.Payment, error)
}

type service struct {
	db    *sql.DB
	r     paymentrepo.Repo
	br    bookingrepo.Repo
	users userrepo.Repo
	now   func() time.Time
}

func New(db *sql.DB, r paymentrepo.Repo, br bookingrepo.Repo, users userrepo.Repo) Service {
	return &service{db: db, r: r, br: br, users: users, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID int64, bookingIDs []int64, method model.PaymentMethod, ptype model.PaymentType, total float64) (p *model.Payment, err error) {
	if len(bookingIDs) == 0 {
		return nil, makeErrf(ErrInvalidInput, "at least one booking id is required")
	}
	if !method.Valid() {
		return nil, makeErrf(ErrInvalidInput, "unknown payment method %q", string(method))
	}
	if !ptype.Valid() {
		return nil, makeErrf(ErrInvalidInput, "unknown payment type %q", string(ptype))
	}

	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, makeErr(ErrNotFound)
	}
	if !u.IsVerified {
		return nil, makeErr(ErrNotVerified)
	}

	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	bookings, err := s.br.ByIDsForUpdate(ctx, tx, bookingIDs)
	if err != nil {
		return nil, err
	}
	if len(bookings) != len(bookingIDs) {
		return nil, makeErr(ErrBookingNotFound)
	}

	var sum float64
	for i := range bookings {
		b := &bookings[i]
		if b.UserID != userID {
			return nil, makeErr(ErrForbidden)
		}
		if err := settleable(b, ptype, now); err != nil {
			return nil, err
		}
		sum += b.TotalPrice
	}
	if math.Abs(sum-total) > 0.01 {
		return nil, makeErrf(ErrAmountMismatch,
			"total_price %.2f does not match booking total %.2f", total, sum)
	}

	target := model.BookingPaid
	if ptype == model.PaymentFine {
		target = model.BookingReturned
	}
	paid := true
	for _, b := range bookings {
		if err = s.br.UpdateStatusTx(ctx, tx, b.ID, target, &paid, now); err != nil {
			return nil, err
		}
	}

	p = &model.Payment{
		UserID:      userID,
		BookingIDs:  bookingIDs,
		TotalPrice:  total,
		Method:      method,
		Type:        ptype,
		PaymentDate: now,
	}
	id, err := s.r.Insert(ctx, tx, p)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	p.ID = id
	return p, nil
}

// settleable checks the booking can be settled by a payment of this type.
func settleable(b *model.Booking, ptype model.PaymentType, now time.Time) error {
	switch ptype {
	case model.PaymentRent:
		if b.Status != model.BookingPending && b.Status != model.BookingConfirmed {
			return makeErrf(ErrWrongStatus, "booking %d is %s, not payable", b.ID, b.Status)
		}
		if b.Status == model.BookingPending && b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
			return makeErrf(ErrWrongStatus, "booking %d hold has expired", b.ID)
		}
	case model.PaymentFine:
		if b.Status != model.BookingPastDue {
			return makeErrf(ErrWrongStatus, "booking %d is %s, fines settle PASTDUE bookings", b.ID, b.Status)
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, paymentID, actorID int64) (*model.Payment, error) {
	p, err := s.r.ByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, makeErr(ErrNotFound)
	}
	if p.UserID != actorID {
		u, err := s.users.ByID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if u == nil || !u.IsAdmin {
			return nil, makeErr(ErrForbidden)
		}
	}
	return p, nil
}

func (s *service) ListFor(ctx context.Context, actorID int64) ([]model.Payment, error) {
	u, err := s.users.ByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if u != nil && u.IsAdmin {
		return s.r.ListAll(ctx)
	}
	return s.r.ListByUser(ctx, actorID)
}
