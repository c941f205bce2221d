package bookingsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alfifrr/werent-backend-sub000/model"
)

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		name  string
		from  model.BookingStatus
		to    model.BookingStatus
		admin bool
		want  bool
	}{
		{"user cancels pending", model.BookingPending, model.BookingCancelled, false, true},
		{"user cancels confirmed", model.BookingConfirmed, model.BookingCancelled, false, true},
		{"user returns confirmed", model.BookingConfirmed, model.BookingReturned, false, true},
		{"user cannot confirm own booking", model.BookingPending, model.BookingConfirmed, false, false},
		{"user cannot mark paid", model.BookingConfirmed, model.BookingPaid, false, false},
		{"user cannot cancel paid", model.BookingPaid, model.BookingCancelled, false, false},

		{"admin confirms pending", model.BookingPending, model.BookingConfirmed, true, true},
		{"admin marks paid", model.BookingConfirmed, model.BookingPaid, true, true},
		{"admin flags pastdue", model.BookingPaid, model.BookingPastDue, true, true},
		{"admin settles pastdue", model.BookingPastDue, model.BookingReturned, true, true},

		{"no self transition", model.BookingPending, model.BookingPending, true, false},
		{"terminal cancelled is frozen", model.BookingCancelled, model.BookingPending, true, false},
		{"terminal expired is frozen", model.BookingExpired, model.BookingConfirmed, true, false},
		{"terminal completed is frozen", model.BookingCompleted, model.BookingPaid, true, false},
		{"terminal returned is frozen", model.BookingReturned, model.BookingPaid, true, false},
		{"unknown target", model.BookingPending, model.BookingStatus("SHIPPED"), true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, transitionAllowed(tc.from, tc.to, tc.admin))
		})
	}
}

func TestUpdateStatus_PaidFlagFollowsPaidStatus(t *testing.T) {
	var gotPaid *bool
	var gotStatus model.BookingStatus
	r := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: 1, Status: model.BookingConfirmed}, nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status model.BookingStatus, paid *bool, now time.Time) error {
			gotStatus, gotPaid = status, paid
			return nil
		},
	}
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id, IsAdmin: id == 100}, nil
	}}
	s := NewWithClock(nil, r, itemWithQuantity(1), users, fixedClock(testNow))

	b, err := s.UpdateStatus(context.Background(), 7, 100, model.BookingPaid)
	require.NoError(t, err)
	require.Equal(t, model.BookingPaid, gotStatus)
	require.NotNil(t, gotPaid)
	require.True(t, *gotPaid)
	require.True(t, b.Paid)
	require.Equal(t, testNow, b.UpdatedAt)

	// Cancellation must not touch the paid flag.
	b, err = s.UpdateStatus(context.Background(), 7, 1, model.BookingCancelled)
	require.NoError(t, err)
	require.Nil(t, gotPaid)
	require.False(t, b.Paid)
}

func TestUpdateStatus_Failures(t *testing.T) {
	r := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			switch id {
			case 7:
				return &model.Booking{ID: 7, UserID: 1, Status: model.BookingPending}, nil
			case 8:
				return &model.Booking{ID: 8, UserID: 1, Status: model.BookingExpired}, nil
			}
			return nil, nil
		},
	}
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id}, nil
	}}
	s := NewWithClock(nil, r, itemWithQuantity(1), users, fixedClock(testNow))

	_, err := s.UpdateStatus(context.Background(), 7, 1, model.BookingStatus("bogus"))
	require.Equal(t, ErrInvalidInput, Code(err))

	_, err = s.UpdateStatus(context.Background(), 99, 1, model.BookingCancelled)
	require.Equal(t, ErrNotFound, Code(err))

	_, err = s.UpdateStatus(context.Background(), 7, 2, model.BookingCancelled)
	require.Equal(t, ErrForbidden, Code(err))

	_, err = s.UpdateStatus(context.Background(), 7, 1, model.BookingConfirmed)
	require.Equal(t, ErrInvalidTransition, Code(err))

	_, err = s.UpdateStatus(context.Background(), 8, 1, model.BookingCancelled)
	require.Equal(t, ErrInvalidTransition, Code(err))
}

func TestCancel_IsACancelledTransition(t *testing.T) {
	var gotStatus model.BookingStatus
	r := &mockRepo{
		byIDFn: func(ctx context.Context, id int64) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: 1, Status: model.BookingPending}, nil
		},
		updateStatusFn: func(ctx context.Context, id int64, status model.BookingStatus, paid *bool, now time.Time) error {
			gotStatus = status
			return nil
		},
	}
	users := &mockUsers{byIDFn: func(ctx context.Context, id int64) (*model.User, error) {
		return &model.User{ID: id}, nil
	}}
	s := NewWithClock(nil, r, itemWithQuantity(1), users, fixedClock(testNow))

	b, err := s.Cancel(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, model.BookingCancelled, gotStatus)
	require.Equal(t, model.BookingCancelled, b.Status)
}
