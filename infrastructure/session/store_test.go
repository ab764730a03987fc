package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/infrastructure/cache"
	"userhub/infrastructure/sqlite"
	"userhub/models"
)

func openSessionTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "sessions-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func sampleRow(id string, expires time.Time) models.Session {
	row := models.Session{
		ID:        id,
		Token:     "sealed-token",
		UserID:    "7",
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		ExpiresAt: expires,
	}
	row.SetRoles([]string{"General User"})
	return row
}

func TestSQLiteStoreSaveLoadDelete(t *testing.T) {
	db := openSessionTestDB(t)
	ctx := context.Background()
	store := NewSQLiteStore(db, nil)

	row := sampleRow("sid-1", time.Now().Add(time.Hour))
	if err := store.Save(ctx, row); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A fresh store has an empty cache, so this reads the table.
	fresh := NewSQLiteStore(db, cache.NewSessionCache())
	got, err := fresh.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Email != "john@example.com" || got.RolesJSON != `["General User"]` || got.Token != "sealed-token" {
		t.Fatalf("unexpected row: %+v", got)
	}

	row.FirstName = "Johnny"
	row.SetRoles([]string{"Admin"})
	if err := store.Save(ctx, row); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err = NewSQLiteStore(db, nil).Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.FirstName != "Johnny" || !got.IsAdmin() {
		t.Fatalf("expected upserted fields, got %+v", got)
	}

	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "sid-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSQLiteStorePurgeExpired(t *testing.T) {
	db := openSessionTestDB(t)
	ctx := context.Background()
	store := NewSQLiteStore(db, nil)
	now := time.Now()

	if err := store.Save(ctx, sampleRow("old", now.Add(-time.Hour))); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := store.Save(ctx, sampleRow("new", now.Add(time.Hour))); err != nil {
		t.Fatalf("save new: %v", err)
	}

	n, err := store.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged row, got %d", n)
	}
	if _, err := store.Load(ctx, "old"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected old session gone, got %v", err)
	}
	if _, err := store.Load(ctx, "new"); err != nil {
		t.Fatalf("expected new session kept: %v", err)
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTripWithTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	row := sampleRow("sid-r", time.Now().Add(30*time.Minute))
	require.NoError(t, store.Save(ctx, row))

	ttl := mr.TTL("userhub:session:sid-r")
	assert.Greater(t, ttl, 29*time.Minute)
	assert.LessOrEqual(t, ttl, 30*time.Minute)

	got, err := store.Load(ctx, "sid-r")
	require.NoError(t, err)
	assert.Equal(t, "John", got.FirstName)
	assert.Equal(t, []string{"General User"}, got.Roles())

	mr.FastForward(31 * time.Minute)
	_, err = store.Load(ctx, "sid-r")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRow("sid-d", time.Now().Add(time.Hour))))
	require.NoError(t, store.Delete(ctx, "sid-d"))
	assert.False(t, mr.Exists("userhub:session:sid-d"))
	require.NoError(t, store.Delete(ctx, "missing"))
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("userhub:session:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}
