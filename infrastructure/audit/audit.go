package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/uptrace/bun"

	"userhub/infrastructure/sqlite"
	"userhub/models"
)

// Actions recorded by the console.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionSessionExpired = "session_expired"
	ActionProfileUpdate  = "profile_update"
	ActionPasswordChange = "password_change"
	ActionUserDelete     = "user_delete"
	ActionRoleCreate     = "role_create"
	ActionRoleUpdate     = "role_update"
	ActionRoleDelete     = "role_delete"
)

// Entry is one audit record. Before and After are stored as JSON.
type Entry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
}

// Service writes audit records. A nil Service records nothing.
type Service struct {
	db *sqlite.DB
}

func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Record writes e in its own transaction. Failures are logged, never returned:
// the backend call the entry describes has already happened.
func (s *Service) Record(ctx context.Context, e Entry) {
	if s == nil || s.db == nil {
		return
	}
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, e)
	})
	if err != nil {
		slog.Error("audit write failed", slog.String("action", e.Action), slog.String("entity_id", e.EntityID), slog.Any("err", err))
	}
}

// Write inserts e inside the caller transaction.
func (s *Service) Write(ctx context.Context, tx bun.Tx, e Entry) error {
	beforeJSON, err := marshal(e.Before)
	if err != nil {
		return err
	}
	afterJSON, err := marshal(e.After)
	if err != nil {
		return err
	}
	log := &models.AuditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

// ForUser returns the newest entries recorded for userID, at most limit.
func (s *Service) ForUser(ctx context.Context, userID string, limit int) ([]models.AuditLog, error) {
	var out []models.AuditLog
	if s == nil || s.db == nil {
		return out, nil
	}
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&out).
			Where("al.user_id = ?", userID).
			OrderExpr("al.id DESC").
			Limit(limit).
			Scan(ctx)
	})
	return out, err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
