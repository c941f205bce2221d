package itemsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alfifrr/werent-backend-sub000/model"
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

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Create(ctx context.Context, it *model.Item) (int64, error)
	ByID(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context, category string) ([]model.Item, error)
	Update(ctx context.Context, it *model.Item) error
	Delete(ctx context.Context, id int64) error
}

type UserReader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	Create(ctx context.Context, ownerID int64, it model.Item) (*model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	List(ctx context.Context, category string) ([]model.Item, error)
	Update(ctx context.Context, actorID, itemID int64, it model.Item) (*model.Item, error)
	Delete(ctx context.Context, actorID, itemID int64) error
}

type service struct {
	r     Repo
	users UserReader
}

func New(r Repo, users UserReader) Service { return &service{r: r, users: users} }

func (s *service) Create(ctx context.Context, ownerID int64, it model.Item) (*model.Item, error) {
	if it.Title == "" || it.Category == "" || it.PricePerDay < 0 || it.Quantity < 0 {
		return nil, makeErr(ErrInvalidInput)
	}
	it.OwnerID = ownerID
	id, err := s.r.Create(ctx, &it)
	if err != nil {
		return nil, err
	}
	return s.r.ByID(ctx, id)
}

func (s *service) Get(ctx context.Context, id int64) (*model.Item, error) {
	it, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, makeErr(ErrNotFound)
	}
	return it, nil
}

func (s *service) List(ctx context.Context, category string) ([]model.Item, error) {
	return s.r.List(ctx, category)
}

func (s *service) Update(ctx context.Context, actorID, itemID int64, it model.Item) (*model.Item, error) {
	cur, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, actorID, cur.OwnerID); err != nil {
		return nil, err
	}
	if it.Title == "" || it.Category == "" || it.PricePerDay < 0 || it.Quantity < 0 {
		return nil, makeErr(ErrInvalidInput)
	}
	it.ID = itemID
	if err := s.r.Update(ctx, &it); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return s.r.ByID(ctx, itemID)
}

func (s *service) Delete(ctx context.Context, actorID, itemID int64) error {
	cur, err := s.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, actorID, cur.OwnerID); err != nil {
		return err
	}
	if err := s.r.Delete(ctx, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *service) requireOwnerOrAdmin(ctx context.Context, actorID, ownerID int64) error {
	if actorID == ownerID {
		return nil
	}
	u, err := s.users.ByID(ctx, actorID)
	if err != nil {
		return err
	}
	if u == nil || !u.IsAdmin {
		return makeErr(ErrForbidden)
	}
	return nil
}
