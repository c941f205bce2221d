package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alfifrr/werent-backend-sub000/model"
	bookingrepo "github.com/alfifrr/werent-backend-sub000/repository/booking"
	"github.com/alfifrr/werent-backend-sub000/util/metrics"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrItemNotFound      ErrCode = "ITEM_NOT_FOUND"
	ErrUserNotFound      ErrCode = "USER_NOT_FOUND"
	ErrNotVerified       ErrCode = "NOT_VERIFIED"
	ErrUnavailable       ErrCode = "UNAVAILABLE"
	ErrInvalidInput      ErrCode = "INVALID_INPUT"
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
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

func makeErr(c ErrCode) error { return codedError{code: c} }

func makeErrf(c ErrCode, format string, args ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(format, args...)}
}

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const (
	// holdWindow bounds how long a PENDING booking blocks inventory.
	holdWindow = 30 * time.Minute
	// expiringSoonWindow feeds the informational expiring-soon figure.
	expiringSoonWindow = 5 * time.Minute

	minQuantity = 1
	maxQuantity = 10
)

type Repo = bookingrepo.Repo

// ItemReader and UserReader are the collaborating repositories the engine
// reads from.
type ItemReader interface {
	ByID(ctx context.Context, id int64) (*model.Item, error)
}

type UserReader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	// CheckAvailability answers how many units are free over an inclusive
	// date range. It never returns an error: lookup failures fail closed
	// into an unavailable result.
	CheckAvailability(ctx context.Context, itemID int64, start, end time.Time, requested int) *model.Availability

	// Calendar runs the single-day check for every day in the range.
	Calendar(ctx context.Context, itemID int64, start, end time.Time) (map[string]model.DayAvailability, error)

	// Create places a PENDING hold with expires_at = now + 30m. The
	// availability re-check and the insert share one transaction under a
	// row lock on the item.
	Create(ctx context.Context, userID, itemID int64, start, end time.Time, quantity int) (*model.Booking, error)

	ByID(ctx context.Context, bookingID, actorID int64) (*model.Booking, error)
	ListFor(ctx context.Context, actorID int64) ([]model.Booking, error)
	ListByUser(ctx context.Context, targetUserID, actorID int64) ([]model.Booking, error)
	ListForItem(ctx context.Context, itemID, actorID int64) ([]model.Booking, error)

	UpdateStatus(ctx context.Context, bookingID, actorID int64, newStatus model.BookingStatus) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID int64) (*model.Booking, error)

	Statistics(ctx context.Context, actorID int64, from, to *time.Time) (model.BookingStats, error)
	Revenue(ctx context.Context, ownerID int64) (float64, error)
}

type service struct {
	db    *sql.DB
	r     Repo
	items ItemReader
	users UserReader
	now   func() time.Time
}

func New(db *sql.DB, r Repo, items ItemReader, users UserReader) Service {
	return NewWithClock(db, r, items, users, time.Now)
}

// NewWithClock injects the clock; expiry behavior is tested against a fake.
func NewWithClock(db *sql.DB, r Repo, items ItemReader, users UserReader, now func() time.Time) Service {
	return &service{db: db, r: r, items: items, users: users, now: now}
}

// day truncates to a UTC calendar day; bookings are day-granular.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func durationDays(start, end time.Time) int {
	return int(day(end).Sub(day(start))/(24*time.Hour)) + 1
}

// DurationDays is the booking length in days, inclusive of both endpoints.
func DurationDays(b *model.Booking) int {
	if b == nil {
		return 0
	}
	return durationDays(b.StartDate, b.EndDate)
}

func totalPrice(pricePerDay float64, start, end time.Time, quantity int) float64 {
	return pricePerDay * float64(durationDays(start, end)) * float64(quantity)
}

func (s *service) CheckAvailability(ctx context.Context, itemID int64, start, end time.Time, requested int) *model.Availability {
	res := &model.Availability{RequestedQuantity: requested}

	it, err := s.items.ByID(ctx, itemID)
	if err != nil {
		// Fail closed: never report availability off an uncertain read.
		res.Error = "availability lookup failed"
		return res
	}
	if it == nil {
		res.Error = "item not found"
		return res
	}

	now := s.now().UTC()
	sums, err := s.r.ReservedSums(ctx, itemID, day(start), day(end), now, now.Add(expiringSoonWindow))
	if err != nil {
		res.Error = "availability lookup failed"
		return res
	}

	avail := it.Quantity - sums.Confirmed - sums.Pending
	if avail < 0 {
		avail = 0
	}

	res.TotalQuantity = it.Quantity
	res.ConfirmedReserved = sums.Confirmed
	res.PendingReserved = sums.Pending
	res.ExpiringSoon = sums.ExpiringSoon
	res.AvailableQuantity = avail
	// A non-positive request can never be fulfilled, even on a free item.
	res.CanFulfill = requested >= minQuantity && avail >= requested
	res.Available = res.CanFulfill
	return res
}

func (s *service) Calendar(ctx context.Context, itemID int64, start, end time.Time) (map[string]model.DayAvailability, error) {
	it, err := s.items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, makeErr(ErrItemNotFound)
	}

	out := make(map[string]model.DayAvailability)
	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		a := s.CheckAvailability(ctx, itemID, d, d, 1)
		out[d.Format("2006-01-02")] = model.DayAvailability{
			AvailableQuantity: a.AvailableQuantity,
			TotalQuantity:     a.TotalQuantity,
			IsAvailable:       a.Error == "" && a.AvailableQuantity > 0,
		}
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID, itemID int64, start, end time.Time, quantity int) (b *model.Booking, err error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, makeErr(ErrUserNotFound)
	}
	if !u.IsVerified {
		return nil, makeErrf(ErrNotVerified, "email verification required to create bookings")
	}

	start, end = day(start), day(end)
	if end.Before(start) {
		return nil, makeErrf(ErrInvalidInput, "start_date must be on or before end_date")
	}
	if quantity < minQuantity || quantity > maxQuantity {
		return nil, makeErrf(ErrInvalidInput, "quantity must be between %d and %d", minQuantity, maxQuantity)
	}

	now := s.now().UTC()

	// Lazy sweep: normalize stale PENDING rows before the check. The
	// availability math below re-checks expires_at independently, so a
	// failed sweep is harmless.
	_, _ = s.r.ExpirePending(ctx, now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	it, err := s.r.LockItem(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrItemNotFound)
		}
		return nil, err
	}

	sums, err := s.r.ReservedSumsTx(ctx, tx, itemID, start, end, now)
	if err != nil {
		return nil, err
	}
	avail := it.Quantity - sums.Confirmed - sums.Pending
	if avail < 0 {
		avail = 0
	}
	if avail < quantity {
		return nil, makeErrf(ErrUnavailable,
			"requested %d, available %d of %d", quantity, avail, it.Quantity)
	}

	expires := now.Add(holdWindow)
	b = &model.Booking{
		UserID:     userID,
		ItemID:     itemID,
		StartDate:  start,
		EndDate:    end,
		Quantity:   quantity,
		TotalPrice: totalPrice(it.PricePerDay, start, end, quantity),
		Status:     model.BookingPending,
		Paid:       false,
		ExpiresAt:  &expires,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	id, err := s.r.Insert(ctx, tx, b)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	b.ID = id
	metrics.BookingsCreated.Inc()
	return b, nil
}

func (s *service) ByID(ctx context.Context, bookingID, actorID int64) (*model.Booking, error) {
	b, err := s.r.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, makeErr(ErrNotFound)
	}
	if b.UserID != actorID {
		admin, err := s.isAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, makeErr(ErrForbidden)
		}
	}
	return b, nil
}

// ListFor returns all bookings for admins, own bookings otherwise.
func (s *service) ListFor(ctx context.Context, actorID int64) ([]model.Booking, error) {
	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if admin {
		return s.r.ListAll(ctx)
	}
	return s.r.ListByUser(ctx, actorID)
}

func (s *service) ListByUser(ctx context.Context, targetUserID, actorID int64) ([]model.Booking, error) {
	if targetUserID != actorID {
		admin, err := s.isAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, makeErr(ErrForbidden)
		}
	}
	return s.r.ListByUser(ctx, targetUserID)
}

// ListForItem shows an item's bookings to its owner or an admin.
func (s *service) ListForItem(ctx context.Context, itemID, actorID int64) ([]model.Booking, error) {
	it, err := s.items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, makeErr(ErrItemNotFound)
	}
	if it.OwnerID != actorID {
		admin, err := s.isAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, makeErr(ErrForbidden)
		}
	}
	return s.r.ListByItem(ctx, itemID)
}

func (s *service) Cancel(ctx context.Context, bookingID, actorID int64) (*model.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, actorID, model.BookingCancelled)
}

func (s *service) Statistics(ctx context.Context, actorID int64, from, to *time.Time) (model.BookingStats, error) {
	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return model.BookingStats{}, err
	}
	if !admin {
		return model.BookingStats{}, makeErr(ErrForbidden)
	}
	return s.r.Stats(ctx, from, to)
}

func (s *service) Revenue(ctx context.Context, ownerID int64) (float64, error) {
	return s.r.OwnerRevenue(ctx, ownerID)
}

func (s *service) isAdmin(ctx context.Context, userID int64) (bool, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u != nil && u.IsAdmin, nil
}
