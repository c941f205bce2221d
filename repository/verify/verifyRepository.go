package verifyrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound marks an unknown or already-consumed token.
var ErrNotFound = errors.New("verification token not found")

// Store keeps e-mail verification tokens in Redis with a TTL, so stale
// tokens disappear without a sweep.
type Store interface {
	Save(ctx context.Context, token string, userID int64) error
	Consume(ctx context.Context, token string) (int64, error)
}

type store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) Store { return &store{rdb: rdb, ttl: ttl} }

func key(token string) string { return fmt.Sprintf("verify:token:%s", token) }

func (s *store) Save(ctx context.Context, token string, userID int64) error {
	return s.rdb.Set(ctx, key(token), userID, s.ttl).Err()
}

// Consume fetches and deletes the token in one round trip; a token is
// single-use.
func (s *store) Consume(ctx context.Context, token string) (int64, error) {
	v, err := s.rdb.GetDel(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}
