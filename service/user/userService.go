package usersvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alfifrr/werent-backend-sub000/model"
	userrepo "github.com/alfifrr/werent-backend-sub000/repository/user"
)

var ErrNotFound = errors.New("user not found")
var ErrForbidden = errors.New("forbidden")

type Service interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, req model.UpdateProfileReq) (*model.User, error)
	List(ctx context.Context, actorID int64) ([]model.User, error)
}

type service struct{ ur userrepo.Repo }

func New(ur userrepo.Repo) Service { return &service{ur} }

func (s *service) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.ur.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, id int64, req model.UpdateProfileReq) (*model.User, error) {
	if err := s.ur.UpdateProfile(ctx, id, req.Name, req.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) List(ctx context.Context, actorID int64) ([]model.User, error) {
	actor, err := s.ur.ByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return s.ur.List(ctx)
}
