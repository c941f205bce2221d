package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alfifrr/werent-backend-sub000/model"
	bookingrepo "github.com/alfifrr/werent-backend-sub000/repository/booking"
)

type mockRepo struct {
	reservedSumsFn  func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error)
	byIDFn          func(ctx context.Context, id int64) (*model.Booking, error)
	updateStatusFn  func(ctx context.Context, id int64, status model.BookingStatus, paid *bool, now time.Time) error
	expirePendingFn func(ctx context.Context, now time.Time) (int64, error)
	listByUserFn    func(ctx context.Context, userID int64) ([]model.Booking, error)
	listByItemFn    func(ctx context.Context, itemID int64) ([]model.Booking, error)
	listAllFn       func(ctx context.Context) ([]model.Booking, error)
	statsFn         func(ctx context.Context, from, to *time.Time) (model.BookingStats, error)
}

var _ bookingrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) ReservedSums(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
	if m.reservedSumsFn == nil {
		return bookingrepo.ReservedSums{}, nil
	}
	return m.reservedSumsFn(ctx, itemID, start, end, now, soonUntil)
}

func (m *mockRepo) ReservedSumsTx(ctx context.Context, tx *sql.Tx, itemID int64, start, end, now time.Time) (bookingrepo.ReservedSums, error) {
	return bookingrepo.ReservedSums{}, errors.New("not wired in tests")
}

func (m *mockRepo) LockItem(ctx context.Context, tx *sql.Tx, itemID int64) (*model.Item, error) {
	return nil, errors.New("not wired in tests")
}

func (m *mockRepo) Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) (int64, error) {
	return 0, errors.New("not wired in tests")
}

func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.Booking, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}

func (m *mockRepo) ByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) ([]model.Booking, error) {
	return nil, errors.New("not wired in tests")
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, paid *bool, now time.Time) error {
	if m.updateStatusFn == nil {
		return nil
	}
	return m.updateStatusFn(ctx, id, status, paid, now)
}

func (m *mockRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.BookingStatus, paid *bool, now time.Time) error {
	return errors.New("not wired in tests")
}

func (m *mockRepo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	if m.expirePendingFn == nil {
		return 0, nil
	}
	return m.expirePendingFn(ctx, now)
}

func (m *mockRepo) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	if m.listByUserFn == nil {
		return nil, nil
	}
	return m.listByUserFn(ctx, userID)
}

func (m *mockRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	if m.listAllFn == nil {
		return nil, nil
	}
	return m.listAllFn(ctx)
}

func (m *mockRepo) ListByItem(ctx context.Context, itemID int64) ([]model.Booking, error) {
	if m.listByItemFn == nil {
		return nil, nil
	}
	return m.listByItemFn(ctx, itemID)
}

func (m *mockRepo) Stats(ctx context.Context, from, to *time.Time) (model.BookingStats, error) {
	if m.statsFn == nil {
		return model.BookingStats{}, nil
	}
	return m.statsFn(ctx, from, to)
}

func (m *mockRepo) OwnerRevenue(ctx context.Context, ownerID int64) (float64, error) {
	return 0, nil
}

type mockItems struct {
	byIDFn func(ctx context.Context, id int64) (*model.Item, error)
}

func (m *mockItems) ByID(ctx context.Context, id int64) (*model.Item, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}

type mockUsers struct {
	byIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUsers) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var testNow = time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

func itemWithQuantity(q int) *mockItems {
	return &mockItems{byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
		return &model.Item{ID: id, Quantity: q, PricePerDay: 100}, nil
	}}
}

func verifiedUser(id int64) *model.User {
	return &model.User{ID: id, IsVerified: true}
}

// --- helpers ---

func TestDurationDays_Inclusive(t *testing.T) {
	d1 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 1, durationDays(d1, d1))
	require.Equal(t, 3, durationDays(d1, d3))

	// Time-of-day noise must not change the day count.
	noisy := time.Date(2025, 7, 3, 23, 59, 0, 0, time.UTC)
	require.Equal(t, 3, durationDays(d1, noisy))
}

func TestTotalPrice(t *testing.T) {
	d1 := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 100.0*3*2, totalPrice(100, d1, d3, 2))
	require.Equal(t, 50.0, totalPrice(50, d1, d1, 1))
}

// --- availability ---

func TestCheckAvailability_Counting(t *testing.T) {
	r := &mockRepo{
		reservedSumsFn: func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
			return bookingrepo.ReservedSums{Confirmed: 2, Pending: 1, ExpiringSoon: 1}, nil
		},
	}
	s := NewWithClock(nil, r, itemWithQuantity(5), &mockUsers{}, fixedClock(testNow))

	av := s.CheckAvailability(context.Background(), 1, testNow, testNow.AddDate(0, 0, 2), 2)
	require.Empty(t, av.Error)
	require.Equal(t, 5, av.TotalQuantity)
	require.Equal(t, 2, av.ConfirmedReserved)
	require.Equal(t, 1, av.PendingReserved)
	require.Equal(t, 1, av.ExpiringSoon)
	require.Equal(t, 2, av.AvailableQuantity)
	require.True(t, av.CanFulfill)
	require.True(t, av.Available)

	av = s.CheckAvailability(context.Background(), 1, testNow, testNow, 3)
	require.False(t, av.CanFulfill)
	require.Equal(t, 3, av.RequestedQuantity)
}

func TestCheckAvailability_NonPositiveRequestNeverFulfillable(t *testing.T) {
	r := &mockRepo{
		reservedSumsFn: func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
			return bookingrepo.ReservedSums{Confirmed: 5}, nil
		},
	}
	s := NewWithClock(nil, r, itemWithQuantity(5), &mockUsers{}, fixedClock(testNow))

	for _, q := range []int{0, -3} {
		av := s.CheckAvailability(context.Background(), 1, testNow, testNow, q)
		require.False(t, av.Available, "requested %d", q)
		require.False(t, av.CanFulfill, "requested %d", q)
		require.Equal(t, 0, av.AvailableQuantity)
	}
}

func TestCheckAvailability_NeverNegative(t *testing.T) {
	r := &mockRepo{
		reservedSumsFn: func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
			// Oversold history: reserved exceeds the item ceiling.
			return bookingrepo.ReservedSums{Confirmed: 7}, nil
		},
	}
	s := NewWithClock(nil, r, itemWithQuantity(5), &mockUsers{}, fixedClock(testNow))

	av := s.CheckAvailability(context.Background(), 1, testNow, testNow, 1)
	require.Equal(t, 0, av.AvailableQuantity)
	require.False(t, av.Available)
}

func TestCheckAvailability_FailsClosed(t *testing.T) {
	r := &mockRepo{
		reservedSumsFn: func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
			return bookingrepo.ReservedSums{}, errors.New("connection reset")
		},
	}
	s := NewWithClock(nil, r, itemWithQuantity(5), &mockUsers{}, fixedClock(testNow))

	av := s.CheckAvailability(context.Background(), 1, testNow, testNow, 1)
	require.NotEmpty(t, av.Error)
	require.False(t, av.Available)
	require.False(t, av.CanFulfill)
	require.Equal(t, 0, av.AvailableQuantity)

	items := &mockItems{byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
		return nil, nil
	}}
	s = NewWithClock(nil, &mockRepo{}, items, &mockUsers{}, fixedClock(testNow))
	av = s.CheckAvailability(context.Background(), 99, testNow, testNow, 1)
	require.Equal(t, "item not found", av.Error)
	require.False(t, av.Available)
}

func TestCheckAvailability_PassesClockAndTruncatedDays(t *testing.T) {
	var gotStart, gotEnd, gotNow, gotSoon time.Time
	r := &mockRepo{
		reservedSumsFn: func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
			gotStart, gotEnd, gotNow, gotSoon = start, end, now, soonUntil
			return bookingrepo.ReservedSums{}, nil
		},
	}
	s := NewWithClock(nil, r, itemWithQuantity(1), &mockUsers{}, fixedClock(testNow))

	noisyStart := time.Date(2025, 7, 11, 15, 30, 0, 0, time.UTC)
	noisyEnd := time.Date(2025, 7, 12, 1, 0, 0, 0, time.UTC)
	s.CheckAvailability(context.Background(), 1, noisyStart, noisyEnd, 1)

	require.Equal(t, time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC), gotStart)
	require.Equal(t, time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC), gotEnd)
	require.Equal(t, testNow, gotNow)
	require.Equal(t, testNow.Add(5*time.Minute), gotSoon)
}

// A stale hold stops blocking inventory once the clock passes expires_at,
// without anything having rewritten the row.
func TestCheckAvailability_ExpiredHoldFreesInventory(t *testing.T) {
	expiry := testNow.Add(10 * time.Minute)
	r := &mockRepo{
		reservedSumsFn: func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
			if now.Before(expiry) {
				return bookingrepo.ReservedSums{Pending: 1}, nil
			}
			return bookingrepo.ReservedSums{}, nil
		},
	}

	s := NewWithClock(nil, r, itemWithQuantity(1), &mockUsers{}, fixedClock(testNow))
	av := s.CheckAvailability(context.Background(), 1, testNow, testNow, 1)
	require.False(t, av.Available)

	later := NewWithClock(nil, r, itemWithQuantity(1), &mockUsers{}, fixedClock(testNow.Add(15*time.Minute)))
	av = later.CheckAvailability(context.Background(), 1, testNow, testNow, 1)
	require.True(t, av.Available)
	require.Equal(t, 1, av.AvailableQuantity)
}

// --- calendar ---

func TestCalendar_PerDayEntries(t *testing.T) {
	busy := time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)
	r := &mockRepo{
		reservedSumsFn: func(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (bookingrepo.ReservedSums, error) {
			if start.Equal(busy) {
				return bookingrepo.ReservedSums{Confirmed: 2}, nil
			}
			return bookingrepo.ReservedSums{}, nil
		},
	}
	s := NewWithClock(nil, r, itemWithQuantity(2), &mockUsers{}, fixedClock(testNow))

	from := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)
	cal, err := s.Calendar(context.Background(), 1, from, to)
	require.NoError(t, err)
	require.Len(t, cal, 3)

	require.True(t, cal["2025-07-11"].IsAvailable)
	require.Equal(t, 2, cal["2025-07-11"].AvailableQuantity)

	require.False(t, cal["2025-07-12"].IsAvailable)
	require.Equal(t, 0, cal["2025-07-12"].AvailableQuantity)

	require.True(t, cal["2025-07-13"].IsAvailable)
}

func TestCalendar_UnknownItem(t *testing.T) {
	items := &mockItems{byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
		return nil, nil
	}}
	s := NewWithClock(nil, &mockRepo{}, items, &mockUsers{}, fixedClock(testNow))

	_, err := s.Calendar(context.Background(), 99, testNow, testNow)
	require.Equal(t, ErrItemNotFound, Code(err))
}

// --- create: checks that run before the transaction opens ---

func TestCreate_RejectsUnknownAndUnverifiedUsers(t *testing.T) {
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		switch id {
		case 1:
			return verifiedUser(1), nil
		case 2:
			return &model.User{ID: 2, IsVerified: false}, nil
		}
		return nil, nil
	}}
	s := NewWithClock(nil, &mockRepo{}, itemWithQuantity(5), users, fixedClock(testNow))

	_, err := s.Create(context.Background(), 99, 1, testNow, testNow, 1)
	require.Equal(t, ErrUserNotFound, Code(err))

	_, err = s.Create(context.Background(), 2, 1, testNow, testNow, 1)
	require.Equal(t, ErrNotVerified, Code(err))
}

func TestCreate_RejectsBadDatesAndQuantity(t *testing.T) {
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return verifiedUser(id), nil
	}}
	s := NewWithClock(nil, &mockRepo{}, itemWithQuantity(5), users, fixedClock(testNow))

	_, err := s.Create(context.Background(), 1, 1, testNow.AddDate(0, 0, 3), testNow, 1)
	require.Equal(t, ErrInvalidInput, Code(err))

	for _, q := range []int{0, -1, 11} {
		_, err = s.Create(context.Background(), 1, 1, testNow, testNow, q)
		require.Equal(t, ErrInvalidInput, Code(err), "quantity %d", q)
	}
}

// --- reads and access control ---

func TestByID_OwnerAdminAndStranger(t *testing.T) {
	r := &mockRepo{byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
		if id == 7 {
			return &model.Booking{ID: 7, UserID: 1, Status: model.BookingPending}, nil
		}
		return nil, nil
	}}
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, IsAdmin: id == 100}, nil
	}}
	s := NewWithClock(nil, r, itemWithQuantity(1), users, fixedClock(testNow))

	b, err := s.ByID(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, int64(7), b.ID)

	_, err = s.ByID(context.Background(), 7, 2)
	require.Equal(t, ErrForbidden, Code(err))

	b, err = s.ByID(context.Background(), 7, 100)
	require.NoError(t, err)
	require.Equal(t, int64(7), b.ID)

	_, err = s.ByID(context.Background(), 8, 1)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestListFor_AdminSeesAll(t *testing.T) {
	r := &mockRepo{
		listAllFn: func(ctx context.Context) ([]model.Booking, error) {
			return []model.Booking{{ID: 1}, {ID: 2}}, nil
		},
		listByUserFn: func(ctx context.Context, userID int64) ([]model.Booking, error) {
			return []model.Booking{{ID: 1, UserID: userID}}, nil
		},
	}
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, IsAdmin: id == 100}, nil
	}}
	s := NewWithClock(nil, r, itemWithQuantity(1), users, fixedClock(testNow))

	all, err := s.ListFor(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, all, 2)

	own, err := s.ListFor(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.Equal(t, int64(5), own[0].UserID)

	_, err = s.ListByUser(context.Background(), 5, 6)
	require.Equal(t, ErrForbidden, Code(err))
}

func TestListForItem_OwnerOrAdmin(t *testing.T) {
	r := &mockRepo{listByItemFn: func(ctx context.Context, itemID int64) ([]model.Booking, error) {
		return []model.Booking{{ID: 1, ItemID: itemID}}, nil
	}}
	items := &mockItems{byIDFn: func(ctx context.Context, id int64) (*model.Item, error) {
		if id == 1 {
			return &model.Item{ID: 1, OwnerID: 7, Quantity: 2}, nil
		}
		return nil, nil
	}}
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, IsAdmin: id == 100}, nil
	}}
	s := NewWithClock(nil, r, items, users, fixedClock(testNow))

	bs, err := s.ListForItem(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, bs, 1)

	_, err = s.ListForItem(context.Background(), 1, 100)
	require.NoError(t, err)

	_, err = s.ListForItem(context.Background(), 1, 2)
	require.Equal(t, ErrForbidden, Code(err))

	_, err = s.ListForItem(context.Background(), 9, 7)
	require.Equal(t, ErrItemNotFound, Code(err))
}

func TestStatistics_AdminOnly(t *testing.T) {
	r := &mockRepo{statsFn: func(ctx context.Context, from, to *time.Time) (model.BookingStats, error) {
		return model.BookingStats{TotalBookings: 9}, nil
	}}
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, IsAdmin: id == 100}, nil
	}}
	s := NewWithClock(nil, r, itemWithQuantity(1), users, fixedClock(testNow))

	st, err := s.Statistics(context.Background(), 100, nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(9), st.TotalBookings)

	_, err = s.Statistics(context.Background(), 5, nil, nil)
	require.Equal(t, ErrForbidden, Code(err))
}
