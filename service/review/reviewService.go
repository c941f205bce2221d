package reviewsvc

import (
	"context"
	"errors"

	"github.com/alfifrr/werent-backend-sub000/model"
	reviewrepo "github.com/alfifrr/werent-backend-sub000/repository/review"
)

type ErrCode string

const (
	ErrNotFound     ErrCode = "NOT_FOUND"
	ErrItemNotFound ErrCode = "ITEM_NOT_FOUND"
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

type ItemReader interface {
	ByID(ctx context.Context, id int64) (*model.Item, error)
}

type UserReader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	Create(ctx context.Context, userID, itemID int64, rating int, comment string) (*model.Review, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.Review, error)
	Delete(ctx context.Context, reviewID, actorID int64) error
}

type service struct {
	r     reviewrepo.Repo
	items ItemReader
	users UserReader
}

func New(r reviewrepo.Repo, items ItemReader, users UserReader) Service {
	return &service{r: r, items: items, users: users}
}

func (s *service) Create(ctx context.Context, userID, itemID int64, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, makeErr(ErrInvalidInput)
	}
	it, err := s.items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, makeErr(ErrItemNotFound)
	}

	rv := &model.Review{ItemID: itemID, UserID: userID, Rating: rating, Comment: comment}
	id, err := s.r.Create(ctx, rv)
	if err != nil {
		return nil, err
	}
	return s.r.ByID(ctx, id)
}

func (s *service) ListByItem(ctx context.Context, itemID int64) ([]model.Review, error) {
	return s.r.ListByItem(ctx, itemID)
}

func (s *service) Delete(ctx context.Context, reviewID, actorID int64) error {
	rv, err := s.r.ByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv == nil {
		return makeErr(ErrNotFound)
	}
	if rv.UserID != actorID {
		u, err := s.users.ByID(ctx, actorID)
		if err != nil {
			return err
		}
		if u == nil || !u.IsAdmin {
			return makeErr(ErrForbidden)
		}
	}
	return s.r.Delete(ctx, reviewID)
}
