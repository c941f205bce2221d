package itemrepo

import (
	"context"
	"database/sql"

	"github.com/alfifrr/werent-backend-sub000/model"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context, category string) ([]model.Item, error)
	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, it *model.Item) (int64, error) {
	const q = `
INSERT INTO items (owner_id, title, description, category, price_per_day, quantity)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		it.OwnerID, it.Title, it.Description, it.Category, it.PricePerDay, it.Quantity,
	).Scan(&id)
	return id, err
}

const itemColumns = `id, owner_id, title, description, category, price_per_day, quantity, created_at`

func (r *repo) ByID(ctx context.Context, id int64) (*model.Item, error) {
	var it model.Item
	err := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id,
	).Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Category,
		&it.PricePerDay, &it.Quantity, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *repo) List(ctx context.Context, category string) ([]model.Item, error) {
	const q = `
SELECT ` + itemColumns + `
FROM items
WHERE $1 = '' OR category = $1
ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description,
			&it.Category, &it.PricePerDay, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, it *model.Item) error {
	const q = `
UPDATE items
SET title = $2, description = $3, category = $4, price_per_day = $5, quantity = $6
WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q,
		it.ID, it.Title, it.Description, it.Category, it.PricePerDay, it.Quantity)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the item; dependent images cascade in the schema.
func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
