package paymentrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/alfifrr/werent-backend-sub000/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Payment, error)
	ListAll(ctx context.Context) ([]model.Payment, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, p *model.Payment) (int64, error) {
	ids, err := json.Marshal(p.BookingIDs)
	if err != nil {
		return 0, err
	}
	const q = `
INSERT INTO payments (user_id, booking_ids, total_price, payment_method, payment_type, payment_date)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	var id int64
	err = tx.QueryRowContext(ctx, q,
		p.UserID, ids, p.TotalPrice, p.Method, p.Type, p.PaymentDate,
	).Scan(&id)
	return id, err
}

const paymentColumns = `id, user_id, booking_ids, total_price, payment_method, payment_type, payment_date`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	var ids []byte
	err := row.Scan(&p.ID, &p.UserID, &ids, &p.TotalPrice, &p.Method, &p.Type, &p.PaymentDate)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ids, &p.BookingIDs); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Payment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY payment_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repo) ListAll(ctx context.Context) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments ORDER BY payment_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Payment, error) {
	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
