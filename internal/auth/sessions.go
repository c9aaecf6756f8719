package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/reskianugrahsari/aplikasi-kasir/internal/redisx"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Sessions is the login gate. One admin credential pair, uuid tokens in
// Redis with a TTL; logout removes the token. Session state lives here and
// nowhere else.
type Sessions struct {
	Redis    *redis.Client
	User     string
	Password string
}

// Login validates the credentials and mints a session token.
func (s *Sessions) Login(ctx context.Context, username, password string) (string, error) {
	if username != s.User || password != s.Password {
		return "", ErrInvalidCredentials
	}
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeySession, token)
	if err := s.Redis.Set(ctx, key, username, redisx.TTLSession).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Validate reports whether the token names a live session.
func (s *Sessions) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return redisx.Exists(ctx, s.Redis, fmt.Sprintf(redisx.KeySession, token))
}

// Logout tears the session down. Unknown tokens are a no-op.
func (s *Sessions) Logout(ctx context.Context, token string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}
