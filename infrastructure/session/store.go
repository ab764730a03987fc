package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"userhub/infrastructure/cache"
	"userhub/infrastructure/sqlite"
	"userhub/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions. Rows hold the sealed token; Manager seals and opens it.
type Store interface {
	Load(ctx context.Context, id string) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Delete(ctx context.Context, id string) error
}

// SQLiteStore keeps sessions in the sessions table with an in-memory cache in front.
type SQLiteStore struct {
	db    *sqlite.DB
	cache *cache.SessionCache
}

func NewSQLiteStore(db *sqlite.DB, c *cache.SessionCache) *SQLiteStore {
	if c == nil {
		c = cache.NewSessionCache()
	}
	return &SQLiteStore{db: db, cache: c}
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (models.Session, error) {
	if cached, ok := s.cache.Find(id); ok {
		return cached, nil
	}
	var row models.Session
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&row).Where("s.id = ?", id).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	s.cache.Add(row)
	return row, nil
}

func (s *SQLiteStore) Save(ctx context.Context, row models.Session) error {
	row.UpdatedAt = time.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = row.UpdatedAt
	}
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&row).
			On("CONFLICT (id) DO UPDATE").
			Set("token = EXCLUDED.token").
			Set("email = EXCLUDED.email").
			Set("first_name = EXCLUDED.first_name").
			Set("last_name = EXCLUDED.last_name").
			Set("roles_json = EXCLUDED.roles_json").
			Set("expires_at = EXCLUDED.expires_at").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.cache.Add(row)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes rows past their expiry and returns how many were deleted.
func (s *SQLiteStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	s.cache.EvictExpired(now)
	var n int64
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Session)(nil)).Where("expires_at < ?", now).Exec(ctx)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

// RedisStore keeps sessions as JSON values that expire with the session.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "userhub:session:"}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (models.Session, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	var row models.Session
	if err := json.Unmarshal(payload, &row); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return row, nil
}

func (s *RedisStore) Save(ctx context.Context, row models.Session) error {
	ttl := time.Until(row.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, row.ID)
	}
	row.UpdatedAt = time.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = row.UpdatedAt
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(row.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
