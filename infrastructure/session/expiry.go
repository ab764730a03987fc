package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a backend JWT without verifying it.
// The backend remains the authority; the value only bounds how long the session row is kept.
// A token without a readable exp gets fallback. An exp in the past is returned as is.
func TokenExpiry(token string, now time.Time, fallback time.Duration) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return now.Add(fallback)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return now.Add(fallback)
	}
	return exp.Time
}
