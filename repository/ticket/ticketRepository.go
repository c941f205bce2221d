package ticketrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/alfifrr/werent-backend-sub000/model"
)

type Repo interface {
	Create(ctx context.Context, t *model.Ticket) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Ticket, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Ticket, error)
	ListAll(ctx context.Context) ([]model.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status model.TicketStatus, now time.Time) error

	AddMessage(ctx context.Context, m *model.TicketMessage) (int64, error)
	Messages(ctx context.Context, ticketID int64) ([]model.TicketMessage, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, t *model.Ticket) (int64, error) {
	const q = `
INSERT INTO tickets (user_id, subject, description, status)
VALUES ($1,$2,$3,$4)
RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q, t.UserID, t.Subject, t.Description, t.Status).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return t.ID, err
}

const ticketColumns = `id, user_id, subject, description, status, created_at, updated_at`

func (r *repo) ByID(ctx context.Context, id int64) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id,
	).Scan(&t.ID, &t.UserID, &t.Subject, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 ORDER BY updated_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *repo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY updated_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func collectTickets(rows *sql.Rows) ([]model.Ticket, error) {
	var out []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Description,
			&t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.TicketStatus, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET status = $2, updated_at = $3 WHERE id = $1`, id, status, now)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) AddMessage(ctx context.Context, m *model.TicketMessage) (int64, error) {
	const q = `
INSERT INTO ticket_messages (ticket_id, sender_id, body)
VALUES ($1,$2,$3)
RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q, m.TicketID, m.SenderID, m.Body).
		Scan(&m.ID, &m.CreatedAt)
	return m.ID, err
}

func (r *repo) Messages(ctx context.Context, ticketID int64) ([]model.TicketMessage, error) {
	const q = `
SELECT id, ticket_id, sender_id, body, created_at
FROM ticket_messages
WHERE ticket_id = $1
ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TicketMessage
	for rows.Next() {
		var m model.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
