package loginsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "bff:login-session:"

// RedisRepo keeps login sessions in Redis so that any gateway instance can
// serve the callback. Expiry is enforced by the key TTL and re-checked on read.
type RedisRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

var _ Repo = (*RedisRepo)(nil)

func NewRedisRepo(client redis.UniversalClient, ttl time.Duration) *RedisRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRepo{client: client, ttl: ttl, now: time.Now}
}

// NewRedisClient parses a redis:// URL and verifies the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("[loginsession NewRedisClient] invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[loginsession NewRedisClient] failed to ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisRepo) key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Begin creates a new login session and stores it with the repository TTL
func (r *RedisRepo) Begin(ctx context.Context) (Session, error) {
	session, err := newSession(r.now(), r.ttl)
	if err != nil {
		return Session{}, err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return Session{}, fmt.Errorf("[RedisRepo Begin] failed to marshal session: %w", err)
	}

	stored, err := r.client.SetNX(ctx, r.key(session.ID), data, r.ttl).Result()
	if err != nil {
		return Session{}, fmt.Errorf("[RedisRepo Begin] failed to store session in redis: %w", err)
	}
	if !stored {
		return Session{}, fmt.Errorf("[RedisRepo Begin] session id collision")
	}
	return session, nil
}

// Consume atomically reads and deletes the session with GETDEL
func (r *RedisRepo) Consume(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, ErrNotFound
	}

	data, err := r.client.GetDel(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("[RedisRepo Consume] failed to read session from redis: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("[RedisRepo Consume] failed to unmarshal session: %w", err)
	}
	if session.Expired(r.now()) {
		return Session{}, ErrNotFound
	}
	return session, nil
}
