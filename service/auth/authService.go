package authsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alfifrr/werent-backend-sub000/model"
	"github.com/alfifrr/werent-backend-sub000/repository/mailer"
	userrepo "github.com/alfifrr/werent-backend-sub000/repository/user"
	verifyrepo "github.com/alfifrr/werent-backend-sub000/repository/verify"
	"github.com/alfifrr/werent-backend-sub000/util/hash"
	jwtutil "github.com/alfifrr/werent-backend-sub000/util/jwt"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrBadInput        = errors.New("bad input")
	ErrInvalidCreds    = errors.New("invalid credentials")
	ErrTokenInvalid    = errors.New("invalid or expired verification token")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrUserNotFound    = errors.New("user not found")
)

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	Verify(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
}

type service struct {
	ur      userrepo.Repo
	tokens  verifyrepo.Store
	mail    mailer.Mailer
	secret  string
	baseURL string
}

func New(ur userrepo.Repo, tokens verifyrepo.Store, mail mailer.Mailer, secret, baseURL string) Service {
	return &service{ur: ur, tokens: tokens, mail: mail, secret: secret, baseURL: baseURL}
}

func role(u *model.User) string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Name) == "" || len(req.Password) < 8 {
		return nil, "", ErrBadInput
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hashed,
	}
	if err := s.ur.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	// Verification mail is best-effort; registration stands even if the
	// provider is down. The user can request a resend.
	_ = s.sendVerification(ctx, u)

	token, err := jwtutil.Issue(s.secret, u.ID, role(u), 24*time.Hour)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", ErrBadInput
	}

	u, err := s.ur.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}

	token, err := jwtutil.Issue(s.secret, u.ID, role(u), 24*time.Hour)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Verify(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenInvalid
	}
	uid, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, verifyrepo.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	}
	return s.ur.MarkVerified(ctx, uid)
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.ur.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}
	return s.sendVerification(ctx, u)
}

func (s *service) sendVerification(ctx context.Context, u *model.User) error {
	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, u.ID); err != nil {
		return err
	}
	return s.mail.Send(ctx, mailer.Mail{
		To:      u.Email,
		Subject: "Verify your WeRent account",
		Body:    "Hi " + u.Name + ",\n\nVerify your email: " + s.baseURL + "/auth/verify?token=" + token + "\n\nThe link expires in 24 hours.",
	})
}
