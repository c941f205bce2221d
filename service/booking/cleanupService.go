package bookingsvc

import (
	"context"
	"time"

	"github.com/alfifrr/werent-backend-sub000/util/metrics"
)

// Cleaner flips stale PENDING holds to EXPIRED. It is invoked lazily on the
// availability-query and booking-creation paths, not by a timer; the
// availability math re-checks expires_at independently, so the sweep only
// normalizes the stored status.
type Cleaner interface {
	ExpirePending(ctx context.Context) (int64, error)
}

type cleaner struct {
	r   Repo
	now func() time.Time
}

func NewCleaner(r Repo) Cleaner { return NewCleanerWithClock(r, time.Now) }

func NewCleanerWithClock(r Repo, now func() time.Time) Cleaner {
	return &cleaner{r: r, now: now}
}

func (c *cleaner) ExpirePending(ctx context.Context) (int64, error) {
	n, err := c.r.ExpirePending(ctx, c.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.BookingsExpired.Add(float64(n))
	}
	return n, nil
}
