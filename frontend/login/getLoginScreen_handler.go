package login

import (
	"net/http"

	"userhub/frontend/shared/context"
	"userhub/frontend/shared/handler"
	"userhub/frontend/shared/viewmodel"
)

// GetLoginScreenHandler renders the login screen. Logged-in visitors go straight to the dashboard.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) error {
	if s, ok := context.GetSessionFromContext(r.Context()); ok && s.IsLoggedIn() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return nil
	}
	state := viewmodel.Update(viewmodel.New(nil), viewmodel.EditStarted{})
	if msg := r.URL.Query().Get("status"); msg != "" {
		state = viewmodel.Update(state, viewmodel.SubmitSucceeded{Message: msg})
	}
	return handler.Render(w, r, http.StatusOK, LoginScreen(state, false))
}
