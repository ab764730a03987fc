package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

const CookieName = "X-Session-Token"

// DefaultLifetime applies when the backend token carries no readable expiry.
const DefaultLifetime = 12 * time.Hour

func SessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// ClearedCookie expires the session cookie in the browser.
func ClearedCookie(secure bool) *http.Cookie {
	return SessionCookie("", -1, secure)
}

func newSessionID() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
