package login

import (
	"net/http"

	"userhub/frontend/shared/context"
	"userhub/infrastructure/audit"
	"userhub/infrastructure/session"
)

// LogoutHandler removes session state and clears the cookie.
func LogoutHandler(sessions *session.Manager, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, ok := context.GetSessionFromContext(r.Context()); ok {
			auditSvc.Record(r.Context(), audit.Entry{
				UserID:     s.UserID,
				Action:     audit.ActionLogout,
				EntityType: "session",
				EntityID:   s.UserID,
			})
		}
		sessions.Logout(r.Context(), w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
