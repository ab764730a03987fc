package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"userhub/infrastructure/seal"
	"userhub/models"
)

// ErrTokenExpired is returned by Begin when the backend hands out a token whose exp has passed.
var ErrTokenExpired = errors.New("login token already expired")

// Manager owns the session lifecycle: Begin on login, Hydrate per request, Update after a profile
// save, Logout on explicit logout or when the backend reports the token as no longer valid.
type Manager struct {
	store  Store
	sealer *seal.Sealer
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, sealer *seal.Sealer, ttl time.Duration, secureCookies bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultLifetime
	}
	return &Manager{store: store, sealer: sealer, ttl: ttl, secure: secureCookies, now: time.Now}
}

// Begin stores a new session for a successful login and sets the cookie.
func (m *Manager) Begin(ctx context.Context, w http.ResponseWriter, login models.LoginResult) (models.Session, error) {
	if strings.TrimSpace(login.Token) == "" {
		return models.Session{}, errors.New("login result carries no token")
	}
	now := m.now()
	expires := TokenExpiry(login.Token, now, m.ttl)
	if !expires.After(now) {
		return models.Session{}, ErrTokenExpired
	}
	if limit := now.Add(m.ttl); expires.After(limit) {
		expires = limit
	}

	sess := models.Session{
		ID:        newSessionID(),
		Token:     login.Token,
		UserID:    strconv.FormatInt(login.UserID, 10),
		Email:     login.Email,
		FirstName: login.FirstName,
		LastName:  login.LastName,
		ExpiresAt: expires,
	}
	sess.SetRoles(login.Roles)

	if err := m.save(ctx, sess); err != nil {
		return models.Session{}, err
	}
	http.SetCookie(w, SessionCookie(sess.ID, int(time.Until(expires).Seconds()), m.secure))
	return sess, nil
}

// Hydrate resolves the request cookie into a session with the token in clear.
// Any failure (no cookie, unknown id, expired row, token that no longer opens) means "not logged in".
func (m *Manager) Hydrate(ctx context.Context, r *http.Request) (models.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return models.Session{}, false
	}
	row, err := m.store.Load(ctx, cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			slog.Error("load session failed", slog.Any("err", err))
		}
		return models.Session{}, false
	}
	if m.now().After(row.ExpiresAt) {
		m.discard(ctx, row.ID)
		return models.Session{}, false
	}
	token, err := m.sealer.Open(row.Token, row.ID)
	if err != nil {
		slog.Warn("session token could not be opened", slog.String("session_id", row.ID))
		m.discard(ctx, row.ID)
		return models.Session{}, false
	}
	row.Token = token
	return row, true
}

// Update copies the identity fields of a saved profile onto the session.
func (m *Manager) Update(ctx context.Context, sess models.Session, user models.User) (models.Session, error) {
	sess.Email = user.Email
	sess.FirstName = user.FirstName
	sess.LastName = user.LastName
	sess.SetRoles(user.Roles)
	if err := m.save(ctx, sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// Logout removes the stored session named by the request cookie and expires the cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		m.discard(ctx, cookie.Value)
	}
	http.SetCookie(w, ClearedCookie(m.secure))
}

func (m *Manager) save(ctx context.Context, sess models.Session) error {
	sealed, err := m.sealer.Seal(sess.Token, sess.ID)
	if err != nil {
		return err
	}
	sess.Token = sealed
	return m.store.Save(ctx, sess)
}

func (m *Manager) discard(ctx context.Context, id string) {
	if err := m.store.Delete(ctx, id); err != nil {
		slog.Error("delete session failed", slog.String("session_id", id), slog.Any("err", err))
	}
}
