package ticketsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alfifrr/werent-backend-sub000/model"
	ticketrepo "github.com/alfifrr/werent-backend-sub000/repository/ticket"
)

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrForbidden    ErrCode = "FORBIDDEN"
	ErrInvalidInput ErrCode = "INVALID_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type UserReader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type TicketWithMessages struct {
	model.Ticket
	Messages []model.TicketMessage `json:"messages"`
}

type Service interface {
	Create(ctx context.Context, userID int64, subject, description string) (*model.Ticket, error)
	Get(ctx context.Context, ticketID, actorID int64) (*TicketWithMessages, error)
	ListFor(ctx context.Context, actorID int64) ([]model.Ticket, error)
	AddMessage(ctx context.Context, ticketID, actorID int64, body string) (*model.TicketMessage, error)
	UpdateStatus(ctx context.Context, ticketID, actorID int64, status model.TicketStatus) (*model.Ticket, error)
}

type service struct {
	r     ticketrepo.Repo
	users UserReader
	now   func() time.Time
}

func New(r ticketrepo.Repo, users UserReader) Service {
	return &service{r: r, users: users, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID int64, subject, description string) (*model.Ticket, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(description) == "" {
		return nil, makeErr(ErrInvalidInput)
	}
	t := &model.Ticket{
		UserID:      userID,
		Subject:     strings.TrimSpace(subject),
		Description: strings.TrimSpace(description),
		Status:      model.TicketOpen,
	}
	if _, err := s.r.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Get(ctx context.Context, ticketID, actorID int64) (*TicketWithMessages, error) {
	t, err := s.participantTicket(ctx, ticketID, actorID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.r.Messages(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return &TicketWithMessages{Ticket: *t, Messages: msgs}, nil
}

func (s *service) ListFor(ctx context.Context, actorID int64) ([]model.Ticket, error) {
	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if admin {
		return s.r.ListAll(ctx)
	}
	return s.r.ListByUser(ctx, actorID)
}

func (s *service) AddMessage(ctx context.Context, ticketID, actorID int64, body string) (*model.TicketMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, makeErr(ErrInvalidInput)
	}
	t, err := s.participantTicket(ctx, ticketID, actorID)
	if err != nil {
		return nil, err
	}
	if t.Status == model.TicketClosed {
		return nil, makeErr(ErrInvalidInput)
	}
	m := &model.TicketMessage{TicketID: ticketID, SenderID: actorID, Body: strings.TrimSpace(body)}
	if _, err := s.r.AddMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) UpdateStatus(ctx context.Context, ticketID, actorID int64, status model.TicketStatus) (*model.Ticket, error) {
	if !status.Valid() {
		return nil, makeErr(ErrInvalidInput)
	}
	admin, err := s.isAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, makeErr(ErrForbidden)
	}
	t, err := s.r.ByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, makeErr(ErrNotFound)
	}
	now := s.now().UTC()
	if err := s.r.UpdateStatus(ctx, ticketID, status, now); err != nil {
		return nil, err
	}
	t.Status = status
	t.UpdatedAt = now
	return t, nil
}

// participantTicket loads the ticket and checks the actor is its owner or
// an admin.
func (s *service) participantTicket(ctx context.Context, ticketID, actorID int64) (*model.Ticket, error) {
	t, err := s.r.ByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, makeErr(ErrNotFound)
	}
	if t.UserID != actorID {
		admin, err := s.isAdmin(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, makeErr(ErrForbidden)
		}
	}
	return t, nil
}

func (s *service) isAdmin(ctx context.Context, userID int64) (bool, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u != nil && u.IsAdmin, nil
}
