package home

import (
	"net/http"

	"userhub/frontend/shared/context"
	"userhub/frontend/shared/handler"
)

// PageQueryHandler renders the landing page. Logged-in visitors go to the dashboard.
func PageQueryHandler(w http.ResponseWriter, r *http.Request) error {
	if context.IsLoggedIn(r.Context()) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return nil
	}
	return handler.Render(w, r, http.StatusOK, HomePage())
}
