package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"userhub/infrastructure/apiclient"
	"userhub/infrastructure/audit"
	"userhub/infrastructure/cache"
	"userhub/infrastructure/config"
	httpserver "userhub/infrastructure/http"
	"userhub/infrastructure/logging"
	"userhub/infrastructure/rbac"
	"userhub/infrastructure/seal"
	"userhub/infrastructure/session"
	"userhub/infrastructure/sqlite"
)

const purgeInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.LogFormat))

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		fatal("open db", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(context.Background(), db); err != nil {
		fatal("apply migrations", err)
	}

	sealer, err := seal.New(cfg.SessionSecret, []byte(cfg.SessionSalt), seal.DefaultParams)
	if err != nil {
		fatal("init sealer", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			fatal("ping redis", err)
		}
		store = session.NewRedisStore(client)
	default:
		sqliteStore := session.NewSQLiteStore(db, cache.NewSessionCache())
		go purgeSessions(ctx, sqliteStore)
		store = sqliteStore
	}

	sessions := session.NewManager(store, sealer, cfg.SessionTTL, cfg.SecureCookies)
	api := apiclient.New(cfg.APIBaseURL, nil, cfg.BackendTimeout)
	rbacSvc := rbac.New(cache.NewRbacCache())
	auditSvc := audit.NewService(db)

	server := httpserver.NewServer(cfg, api, sessions, rbacSvc, auditSvc)
	if err := server.Start(); err != nil {
		fatal("start server", err)
	}
	slog.Info("userhub listening", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIBaseURL), slog.String("session_store", cfg.SessionStore))

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		slog.Error("graceful shutdown error", slog.Any("err", err))
	}
}

// purgeSessions removes expired sqlite sessions until ctx is done. Redis expires keys on its own.
func purgeSessions(ctx context.Context, store *session.SQLiteStore) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.PurgeExpired(ctx, now)
			if err != nil {
				slog.Error("purge expired sessions failed", slog.Any("err", err))
				continue
			}
			if n > 0 {
				slog.Info("purged expired sessions", slog.Int64("count", n))
			}
		}
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("err", err))
	os.Exit(1)
}
