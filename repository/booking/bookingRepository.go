package bookingrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/alfifrr/werent-backend-sub000/model"
)

// ReservedSums aggregates booking quantities overlapping a date range.
// Confirmed covers PAID and CONFIRMED rows; Pending covers live PENDING
// holds only (expires_at null or in the future); ExpiringSoon is the subset
// of Pending whose hold lapses before the soon cutoff.
type ReservedSums struct {
	Confirmed    int
	Pending      int
	ExpiringSoon int
}

type Repo interface {
	ReservedSums(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (ReservedSums, error)
	ReservedSumsTx(ctx context.Context, tx *sql.Tx, itemID int64, start, end, now time.Time) (ReservedSums, error)

	LockItem(ctx context.Context, tx *sql.Tx, itemID int64) (*model.Item, error)
	Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) (int64, error)

	ByID(ctx context.Context, id int64) (*model.Booking, error)
	ByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, paid *bool, now time.Time) error
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.BookingStatus, paid *bool, now time.Time) error

	ExpirePending(ctx context.Context, now time.Time) (int64, error)

	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.Booking, error)

	Stats(ctx context.Context, from, to *time.Time) (model.BookingStats, error)
	OwnerRevenue(ctx context.Context, ownerID int64) (float64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// Overlap is inclusive on both ends: a booking ending on day D blocks a
// query starting on day D. Same-day turnover is not supported.
const reservedSumsQuery = `
SELECT
	COALESCE(SUM(quantity) FILTER (WHERE status IN ('PAID','CONFIRMED')), 0),
	COALESCE(SUM(quantity) FILTER (WHERE status = 'PENDING'
		AND (expires_at IS NULL OR expires_at > $4)), 0),
	COALESCE(SUM(quantity) FILTER (WHERE status = 'PENDING'
		AND expires_at IS NOT NULL AND expires_at > $4 AND expires_at <= $5), 0)
FROM bookings
WHERE item_id = $1 AND start_date <= $3 AND end_date >= $2`

func (r *repo) ReservedSums(ctx context.Context, itemID int64, start, end, now, soonUntil time.Time) (ReservedSums, error) {
	var s ReservedSums
	err := r.db.QueryRowContext(ctx, reservedSumsQuery, itemID, start, end, now, soonUntil).
		Scan(&s.Confirmed, &s.Pending, &s.ExpiringSoon)
	return s, err
}

func (r *repo) ReservedSumsTx(ctx context.Context, tx *sql.Tx, itemID int64, start, end, now time.Time) (ReservedSums, error) {
	var s ReservedSums
	err := tx.QueryRowContext(ctx, reservedSumsQuery, itemID, start, end, now, now).
		Scan(&s.Confirmed, &s.Pending, &s.ExpiringSoon)
	return s, err
}

// LockItem pins the item row so concurrent creates on the same item
// serialize on the re-check + insert.
func (r *repo) LockItem(ctx context.Context, tx *sql.Tx, itemID int64) (*model.Item, error) {
	const q = `
SELECT id, owner_id, title, description, category, price_per_day, quantity, created_at
FROM items
WHERE id = $1
FOR UPDATE`
	var it model.Item
	err := tx.QueryRowContext(ctx, q, itemID).Scan(
		&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category,
		&it.PricePerDay, &it.Quantity, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) (int64, error) {
	const q = `
INSERT INTO bookings (user_id, item_id, start_date, end_date, quantity,
	total_price, status, paid, expires_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, q,
		b.UserID, b.ItemID, b.StartDate, b.EndDate, b.Quantity,
		b.TotalPrice, b.Status, b.Paid, b.ExpiresAt, b.CreatedAt,
	).Scan(&id)
	return id, err
}

const bookingColumns = `
id, user_id, item_id, start_date, end_date, quantity, total_price,
status, paid, expires_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.ItemID, &b.StartDate, &b.EndDate, &b.Quantity,
		&b.TotalPrice, &b.Status, &b.Paid, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *repo) ByIDsForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus, paid *bool, now time.Time) error {
	const q = `
UPDATE bookings
SET status = $2,
	paid = COALESCE($3, paid),
	updated_at = $4
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, status, paid, now)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status model.BookingStatus, paid *bool, now time.Time) error {
	const q = `
UPDATE bookings
SET status = $2,
	paid = COALESCE($3, paid),
	updated_at = $4
WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id, status, paid, now)
	return err
}

func (r *repo) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	const q = `
UPDATE bookings
SET status = 'EXPIRED', updated_at = $1
WHERE status = 'PENDING' AND expires_at IS NOT NULL AND expires_at <= $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *repo) ListAll(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *repo) ListByItem(ctx context.Context, itemID int64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE item_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// statsQuery counts every lifecycle status. The $2 bound is exclusive; the
// controller passes the day after an inclusive "to" date.
const statsQuery = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'PENDING'),
	COUNT(*) FILTER (WHERE status = 'CONFIRMED'),
	COUNT(*) FILTER (WHERE status = 'PAID'),
	COUNT(*) FILTER (WHERE status = 'PASTDUE'),
	COUNT(*) FILTER (WHERE status = 'COMPLETED'),
	COUNT(*) FILTER (WHERE status = 'CANCELLED'),
	COUNT(*) FILTER (WHERE status = 'EXPIRED'),
	COUNT(*) FILTER (WHERE status = 'RETURNED'),
	COALESCE(SUM(total_price) FILTER (WHERE status = 'COMPLETED'), 0)
FROM bookings
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)`

func (r *repo) Stats(ctx context.Context, from, to *time.Time) (model.BookingStats, error) {
	var s model.BookingStats
	err := r.db.QueryRowContext(ctx, statsQuery, from, to).Scan(
		&s.TotalBookings, &s.PendingBookings, &s.ConfirmedBookings,
		&s.PaidBookings, &s.PastDueBookings, &s.CompletedBookings,
		&s.CancelledBookings, &s.ExpiredBookings, &s.ReturnedBookings,
		&s.TotalRevenue,
	)
	return s, err
}

func (r *repo) OwnerRevenue(ctx context.Context, ownerID int64) (float64, error) {
	const q = `
SELECT COALESCE(SUM(b.total_price), 0)
FROM bookings b
JOIN items i ON i.id = b.item_id
WHERE i.owner_id = $1 AND b.status = 'COMPLETED'`
	var total float64
	err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&total)
	return total, err
}
