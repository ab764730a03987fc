package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"userhub/frontend/shared/handler"
	"userhub/frontend/shared/validation"
	"userhub/frontend/shared/viewmodel"
	"userhub/infrastructure/apiclient"
	"userhub/models"
)

// GetRegisterScreenHandler renders the empty registration form with the public role list.
func GetRegisterScreenHandler(api *apiclient.Client) handler.Func {
	return func(w http.ResponseWriter, r *http.Request) error {
		roles := loadRoles(r.Context(), api)
		state := viewmodel.Update(viewmodel.New(nil), viewmodel.EditStarted{})
		return handler.Render(w, r, http.StatusOK, RegisterScreen(state, roles, false))
	}
}

// CreateRegistrationHandler validates the form and registers the account with the backend.
func CreateRegistrationHandler(api *apiclient.Client) handler.Func {
	return func(w http.ResponseWriter, r *http.Request) error {
		if err := r.ParseForm(); err != nil {
			state := viewmodel.Update(viewmodel.New(nil), viewmodel.SubmitFailed{Message: "invalid form data"})
			return handler.Render(w, r, http.StatusBadRequest, RegisterScreen(state, nil, false))
		}

		form := formFromValues(r.PostForm)
		state := viewmodel.Update(viewmodel.New(nil), viewmodel.EditStarted{Values: form.echo()})

		if errs := validation.Check(form); !errs.Empty() {
			state = viewmodel.Update(state, viewmodel.ValidationFailed{Errors: errs})
			return handler.Render(w, r, http.StatusUnprocessableEntity, RegisterScreen(state, loadRoles(r.Context(), api), false))
		}

		state = viewmodel.Update(state, viewmodel.SubmitStarted{})
		resp, err := api.Register(r.Context(), form.request())
		if err != nil {
			var unauth *apiclient.UnauthenticatedError
			if errors.As(err, &unauth) {
				state = viewmodel.Update(state, viewmodel.SubmitFailed{Message: unauth.Message, Fallback: failureFallback})
				return handler.Render(w, r, http.StatusUnprocessableEntity, RegisterScreen(state, loadRoles(r.Context(), api), false))
			}
			state = viewmodel.Update(state, viewmodel.NetworkFailed{})
			return handler.Render(w, r, http.StatusBadGateway, RegisterScreen(state, loadRoles(r.Context(), api), false))
		}

		if !resp.Success {
			if len(resp.Errors) > 0 {
				state = viewmodel.Update(state, viewmodel.ServerFieldErrors{Errors: fieldErrors(resp.Errors)})
			} else {
				state = viewmodel.Update(state, viewmodel.SubmitFailed{Message: resp.Message, Fallback: failureFallback})
			}
			return handler.Render(w, r, http.StatusUnprocessableEntity, RegisterScreen(state, loadRoles(r.Context(), api), false))
		}

		state = viewmodel.Update(state, viewmodel.SubmitSucceeded{Message: successMessage})
		return handler.Render(w, r, http.StatusOK, RegisterScreen(state, nil, true))
	}
}

// loadRoles is best effort: a form without role choices still renders.
func loadRoles(ctx context.Context, api *apiclient.Client) []models.Role {
	resp, err := api.Roles(ctx, "")
	if err != nil {
		slog.Warn("register: failed to load roles", slog.Any("err", err))
		return nil
	}
	if !resp.Success {
		slog.Warn("register: roles request rejected", slog.String("message", resp.Message))
		return nil
	}
	return resp.Data
}

func fieldErrors(errs []apiclient.FieldError) validation.Errors {
	out := make(validation.Errors, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}
