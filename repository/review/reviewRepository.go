package reviewrepo

import (
	"context"
	"database/sql"

	"github.com/alfifrr/werent-backend-sub000/model"
)

type Repo interface {
	Create(ctx context.Context, rv *model.Review) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Review, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.Review, error)
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, rv *model.Review) (int64, error) {
	const q = `
INSERT INTO reviews (item_id, user_id, rating, comment)
VALUES ($1,$2,$3,$4)
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q, rv.ItemID, rv.UserID, rv.Rating, rv.Comment).Scan(&id)
	return id, err
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Review, error) {
	const q = `SELECT id, item_id, user_id, rating, comment, created_at FROM reviews WHERE id = $1`
	var rv model.Review
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rv.ID, &rv.ItemID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repo) ListByItem(ctx context.Context, itemID int64) ([]model.Review, error) {
	const q = `
SELECT id, item_id, user_id, rating, comment, created_at
FROM reviews
WHERE item_id = $1
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ItemID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
