package login

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"userhub/frontend/shared/handler"
	"userhub/frontend/shared/validation"
	"userhub/frontend/shared/viewmodel"
	"userhub/infrastructure/apiclient"
	"userhub/infrastructure/audit"
	"userhub/infrastructure/session"
)

// CreateLoginHandler authenticates against the backend and starts a session.
func CreateLoginHandler(api *apiclient.Client, sessions *session.Manager, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, r *http.Request) error {
		if err := r.ParseForm(); err != nil {
			state := viewmodel.Update(viewmodel.New(nil), viewmodel.SubmitFailed{Message: "invalid form data"})
			return handler.Render(w, r, http.StatusBadRequest, LoginScreen(state, false))
		}

		form := formFromValues(r.PostForm)
		state := viewmodel.Update(viewmodel.New(nil), viewmodel.EditStarted{Values: form.echo()})

		if errs := validation.Check(form); !errs.Empty() {
			state = viewmodel.Update(state, viewmodel.ValidationFailed{Errors: errs})
			return handler.Render(w, r, http.StatusUnprocessableEntity, LoginScreen(state, false))
		}

		state = viewmodel.Update(state, viewmodel.SubmitStarted{})
		resp, err := api.Login(r.Context(), apiclient.LoginRequest{Email: form.Email, Password: form.Password})
		if err != nil {
			var unauth *apiclient.UnauthenticatedError
			switch {
			case errors.As(err, &unauth):
				// No session exists yet, so a 401 here is a credential failure.
				state = viewmodel.Update(state, viewmodel.SubmitFailed{Message: unauth.Message, Fallback: failureFallback})
				return handler.Render(w, r, http.StatusUnauthorized, LoginScreen(state, false))
			default:
				state = viewmodel.Update(state, viewmodel.NetworkFailed{})
				return handler.Render(w, r, http.StatusBadGateway, LoginScreen(state, false))
			}
		}

		if !resp.Success || !resp.HasData || strings.TrimSpace(resp.Data.Token) == "" {
			if len(resp.Errors) > 0 {
				state = viewmodel.Update(state, viewmodel.ServerFieldErrors{Errors: fieldErrors(resp.Errors)})
			} else {
				state = viewmodel.Update(state, viewmodel.SubmitFailed{Message: resp.Message, Fallback: failureFallback})
			}
			return handler.Render(w, r, http.StatusUnprocessableEntity, LoginScreen(state, false))
		}

		sess, err := sessions.Begin(r.Context(), w, resp.Data)
		if errors.Is(err, session.ErrTokenExpired) {
			slog.Warn("login: backend issued an expired token", slog.String("email", form.Email))
			state = viewmodel.Update(state, viewmodel.SubmitFailed{Fallback: failureFallback})
			return handler.Render(w, r, http.StatusBadGateway, LoginScreen(state, false))
		}
		if err != nil {
			slog.Error("login: failed to start session", slog.Any("err", err))
			state = viewmodel.Update(state, viewmodel.SubmitFailed{Fallback: "failed to create session"})
			return handler.Render(w, r, http.StatusInternalServerError, LoginScreen(state, false))
		}
		auditSvc.Record(r.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionLogin,
			EntityType: "session",
			EntityID:   sess.UserID,
		})

		state = viewmodel.Update(state, viewmodel.SubmitSucceeded{Message: successMessage})
		return handler.Render(w, r, http.StatusOK, LoginScreen(state, true))
	}
}

func fieldErrors(errs []apiclient.FieldError) validation.Errors {
	out := make(validation.Errors, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}
