package statssvc

import (
	"context"
	"errors"
	"time"

	"github.com/alfifrr/werent-backend-sub000/model"
	statsrepo "github.com/alfifrr/werent-backend-sub000/repository/stats"
)

var ErrForbidden = errors.New("admin access required")

type UserReader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	AdminStats(ctx context.Context, actorID int64) (model.AdminStats, error)
}

type service struct {
	r     statsrepo.Repo
	users UserReader
	now   func() time.Time
}

func New(r statsrepo.Repo, users UserReader) Service {
	return &service{r: r, users: users, now: time.Now}
}

func (s *service) AdminStats(ctx context.Context, actorID int64) (model.AdminStats, error) {
	u, err := s.users.ByID(ctx, actorID)
	if err != nil {
		return model.AdminStats{}, err
	}
	if u == nil || !u.IsAdmin {
		return model.AdminStats{}, ErrForbidden
	}
	weekAgo := s.now().UTC().Add(-7 * 24 * time.Hour)
	return s.r.AdminStats(ctx, weekAgo)
}
