package statsrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/alfifrr/werent-backend-sub000/model"
)

type Repo interface {
	AdminStats(ctx context.Context, weekAgo time.Time) (model.AdminStats, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) AdminStats(ctx context.Context, weekAgo time.Time) (model.AdminStats, error) {
	const q = `
SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM items),
	(SELECT COUNT(*) FROM bookings),
	(SELECT COALESCE(SUM(total_price), 0) FROM payments),
	(SELECT COUNT(*) FROM reviews),
	(SELECT COUNT(*) FROM tickets),
	(SELECT COUNT(*) FROM users WHERE created_at >= $1),
	(SELECT COUNT(*) FROM items WHERE created_at >= $1),
	(SELECT COUNT(*) FROM bookings WHERE created_at >= $1),
	(SELECT COALESCE(SUM(total_price), 0) FROM payments WHERE payment_date >= $1),
	(SELECT COUNT(*) FROM reviews WHERE created_at >= $1),
	(SELECT COUNT(*) FROM tickets WHERE created_at >= $1)`
	var s model.AdminStats
	err := r.db.QueryRowContext(ctx, q, weekAgo).Scan(
		&s.TotalUsers, &s.TotalItems, &s.TotalBookings, &s.TotalRevenue,
		&s.TotalReviews, &s.TotalTickets,
		&s.Weekly.Users, &s.Weekly.Items, &s.Weekly.Bookings,
		&s.Weekly.Revenue, &s.Weekly.Reviews, &s.Weekly.Tickets,
	)
	return s, err
}
