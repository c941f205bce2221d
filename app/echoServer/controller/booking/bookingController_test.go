package bookingctrl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/alfifrr/werent-backend-sub000/model"
	bookingsvc "github.com/alfifrr/werent-backend-sub000/service/booking"
)

// svcStub overrides only the methods a test exercises; anything else
// panics, which is what we want from an unexpected call.
type svcStub struct {
	bookingsvc.Service
	checkFn func(ctx context.Context, itemID int64, start, end time.Time, requested int) *model.Availability
	statsFn func(ctx context.Context, actorID int64, from, to *time.Time) (model.BookingStats, error)
}

func (s *svcStub) CheckAvailability(ctx context.Context, itemID int64, start, end time.Time, requested int) *model.Availability {
	return s.checkFn(ctx, itemID, start, end, requested)
}

func (s *svcStub) Statistics(ctx context.Context, actorID int64, from, to *time.Time) (model.BookingStats, error) {
	return s.statsFn(ctx, actorID, from, to)
}

type cleanerStub struct{ calls int }

func (c *cleanerStub) ExpirePending(ctx context.Context) (int64, error) {
	c.calls++
	return 0, nil
}

func get(h echo.HandlerFunc, target string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestAvailability_QuantityBounds(t *testing.T) {
	called := false
	svc := &svcStub{checkFn: func(ctx context.Context, itemID int64, start, end time.Time, requested int) *model.Availability {
		called = true
		return &model.Availability{RequestedQuantity: requested}
	}}
	h := New(svc, &cleanerStub{})

	base := "/bookings/availability?item_id=1&start_date=2025-07-11&end_date=2025-07-12"

	for _, q := range []string{"0", "-3", "11", "100"} {
		called = false
		rec := get(h.Availability, base+"&quantity="+q)
		require.Equal(t, http.StatusBadRequest, rec.Code, "quantity %s", q)
		require.Contains(t, rec.Body.String(), "INVALID_INPUT", "quantity %s", q)
		require.False(t, called, "quantity %s must not reach the service", q)
	}

	rec := get(h.Availability, base+"&quantity=abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, called)
}

func TestAvailability_DefaultsAndPassesQuantity(t *testing.T) {
	var gotRequested int
	svc := &svcStub{checkFn: func(ctx context.Context, itemID int64, start, end time.Time, requested int) *model.Availability {
		gotRequested = requested
		return &model.Availability{RequestedQuantity: requested, Available: true}
	}}
	cleaner := &cleanerStub{}
	h := New(svc, cleaner)

	base := "/bookings/availability?item_id=1&start_date=2025-07-11&end_date=2025-07-12"

	rec := get(h.Availability, base)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, gotRequested)

	rec = get(h.Availability, base+"&quantity=10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 10, gotRequested)

	// The sweep runs before each read.
	require.Equal(t, 2, cleaner.calls)
}

func TestStatistics_ToDateIsInclusive(t *testing.T) {
	var gotFrom, gotTo *time.Time
	svc := &svcStub{statsFn: func(ctx context.Context, actorID int64, from, to *time.Time) (model.BookingStats, error) {
		gotFrom, gotTo = from, to
		return model.BookingStats{}, nil
	}}
	h := New(svc, &cleanerStub{})

	rec := get(h.Statistics, "/bookings/statistics?from=2025-07-01&to=2025-07-10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFrom)
	require.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *gotFrom)
	require.NotNil(t, gotTo)
	// Bookings created any time on the 10th fall inside the window.
	require.Equal(t, time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC), *gotTo)
}

func TestAvailability_RejectsBadRange(t *testing.T) {
	h := New(&svcStub{}, &cleanerStub{})

	rec := get(h.Availability, "/bookings/availability?item_id=1&start_date=2025-07-12&end_date=2025-07-11")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_INPUT")
}
