package bookingsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCleaner_SweepIsIdempotent(t *testing.T) {
	calls := 0
	var gotNow time.Time
	r := &mockRepo{expirePendingFn: func(ctx context.Context, now time.Time) (int64, error) {
		calls++
		gotNow = now
		if calls == 1 {
			return 3, nil
		}
		// Nothing left to expire on the second pass.
		return 0, nil
	}}

	c := NewCleanerWithClock(r, fixedClock(testNow))

	n, err := c.ExpirePending(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, testNow, gotNow)

	n, err = c.ExpirePending(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}
