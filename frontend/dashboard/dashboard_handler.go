package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	sessioncontext "userhub/frontend/shared/context"
	"userhub/frontend/shared/handler"
	"userhub/frontend/shared/nav"
	"userhub/frontend/shared/validation"
	"userhub/frontend/shared/viewmodel"
	"userhub/infrastructure/apiclient"
	"userhub/infrastructure/audit"
	"userhub/infrastructure/rbac"
	"userhub/infrastructure/session"
	"userhub/models"
)

const activityLimit = 5

// PageQueryHandler renders the dashboard. ?edit=1 opens the profile editor, ?password=1 the
// change-password dialog and ?status= a success banner left by a previous submit.
func PageQueryHandler(api *apiclient.Client, r *rbac.Rbac, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}

		data, err := loadPage(req.Context(), api, r, auditSvc, sess)
		if err != nil {
			return err
		}

		q := req.URL.Query()
		if q.Get("edit") == "1" && data.HasUser {
			data.Profile = viewmodel.Update(data.Profile, viewmodel.EditStarted{Values: profileValues(data.User)})
		}
		data.PasswordOpen = q.Get("password") == "1"
		if msg := q.Get("status"); msg != "" && !data.Banner.Visible() {
			data.Banner = viewmodel.Banner{Kind: viewmodel.BannerSuccess, Text: msg}
		}
		return handler.Render(w, req, http.StatusOK, DashboardPage(data))
	}
}

// UpdateProfileCommandHandler validates and saves the profile, then refreshes the session identity.
func UpdateProfileCommandHandler(api *apiclient.Client, sessions *session.Manager, r *rbac.Rbac, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}
		if err := req.ParseForm(); err != nil {
			http.Redirect(w, req, "/dashboard?edit=1", http.StatusSeeOther)
			return nil
		}

		form := profileFormFromValues(req.PostForm)
		data, err := loadPage(req.Context(), api, r, auditSvc, sess)
		if err != nil {
			return err
		}
		state := viewmodel.Update(data.Profile, viewmodel.EditStarted{Values: form.values()})

		if errs := validation.Check(form); !errs.Empty() {
			data.Profile = viewmodel.Update(state, viewmodel.ValidationFailed{Errors: errs})
			return handler.Render(w, req, http.StatusUnprocessableEntity, DashboardPage(data))
		}

		state = viewmodel.Update(state, viewmodel.SubmitStarted{})
		resp, err := api.UpdateProfile(req.Context(), sess.Token, form.request())
		switch {
		case errors.Is(err, apiclient.ErrUnauthenticated):
			return err
		case err != nil:
			data.Profile = viewmodel.Update(state, viewmodel.NetworkFailed{})
			return handler.Render(w, req, http.StatusBadGateway, DashboardPage(data))
		case !resp.Success || !resp.HasData:
			if len(resp.Errors) > 0 {
				state = viewmodel.Update(state, viewmodel.ServerFieldErrors{Errors: fieldErrors(resp.Errors)})
			} else {
				state = viewmodel.Update(state, viewmodel.SubmitFailed{Message: resp.Message, Fallback: profileFailedFallback})
			}
			data.Profile = state
			return handler.Render(w, req, http.StatusUnprocessableEntity, DashboardPage(data))
		}

		if _, err := sessions.Update(req.Context(), sess, resp.Data); err != nil {
			slog.Error("dashboard: failed to refresh session identity", slog.String("user_id", sess.UserID), slog.Any("err", err))
		}
		auditSvc.Record(req.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionProfileUpdate,
			EntityType: "user",
			EntityID:   sess.UserID,
			Before:     data.User,
			After:      resp.Data,
		})
		http.Redirect(w, req, "/dashboard?status="+url.QueryEscape(profileSavedMessage), http.StatusSeeOther)
		return nil
	}
}

// ChangePasswordCommandHandler validates the dialog and asks the backend to change the password.
func ChangePasswordCommandHandler(api *apiclient.Client, r *rbac.Rbac, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}
		if err := req.ParseForm(); err != nil {
			http.Redirect(w, req, "/dashboard?password=1", http.StatusSeeOther)
			return nil
		}

		form := passwordFormFromValues(req.PostForm)
		data, err := loadPage(req.Context(), api, r, auditSvc, sess)
		if err != nil {
			return err
		}
		data.PasswordOpen = true
		state := viewmodel.Update(viewmodel.New(nil), viewmodel.EditStarted{})

		if errs := validation.Check(form); !errs.Empty() {
			data.Password = viewmodel.Update(state, viewmodel.ValidationFailed{Errors: errs})
			return handler.Render(w, req, http.StatusUnprocessableEntity, DashboardPage(data))
		}

		state = viewmodel.Update(state, viewmodel.SubmitStarted{})
		resp, err := api.ChangePassword(req.Context(), sess.Token, form.request())
		switch {
		case errors.Is(err, apiclient.ErrUnauthenticated):
			return err
		case err != nil:
			data.Password = viewmodel.Update(state, viewmodel.NetworkFailed{})
			return handler.Render(w, req, http.StatusBadGateway, DashboardPage(data))
		case !resp.Success:
			if len(resp.Errors) > 0 {
				state = viewmodel.Update(state, viewmodel.ServerFieldErrors{Errors: fieldErrors(resp.Errors)})
			} else {
				state = viewmodel.Update(state, viewmodel.SubmitFailed{Message: resp.Message, Fallback: passwordFailedFallback})
			}
			data.Password = state
			return handler.Render(w, req, http.StatusUnprocessableEntity, DashboardPage(data))
		}

		auditSvc.Record(req.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionPasswordChange,
			EntityType: "user",
			EntityID:   sess.UserID,
		})
		http.Redirect(w, req, "/dashboard?status="+url.QueryEscape(passwordSavedMessage), http.StatusSeeOther)
		return nil
	}
}

// loadPage fetches the profile and the role list concurrently. Each call is judged on its own:
// one failing keeps the other's result and raises the load-failure banner. A 401 from either is returned.
func loadPage(ctx context.Context, api *apiclient.Client, r *rbac.Rbac, auditSvc *audit.Service, sess models.Session) (PageData, error) {
	var (
		profile    apiclient.Response[models.User]
		roles      apiclient.Response[[]models.Role]
		profileErr error
		rolesErr   error
	)
	var g errgroup.Group
	g.Go(func() error {
		profile, profileErr = api.Profile(ctx, sess.Token)
		return profileErr
	})
	g.Go(func() error {
		roles, rolesErr = api.Roles(ctx, sess.Token)
		return rolesErr
	})
	_ = g.Wait()

	for _, err := range []error{profileErr, rolesErr} {
		if errors.Is(err, apiclient.ErrUnauthenticated) {
			return PageData{}, err
		}
	}

	data := PageData{Nav: nav.BuildTopNavData("Dashboard", sess, r)}
	failed := false
	if profileErr == nil && profile.Success && profile.HasData {
		data.User = profile.Data
		data.HasUser = true
		data.Nav.FullName = data.User.FullName()
		data.Nav.Initials = nav.Initials(data.User.FirstName, data.User.LastName)
	} else {
		failed = true
	}
	if rolesErr == nil && roles.Success {
		data.Roles = roles.Data
	} else {
		failed = true
	}
	if failed {
		slog.Warn("dashboard: partial load", slog.Any("profile_err", profileErr), slog.Any("roles_err", rolesErr))
		data.Banner = viewmodel.Banner{Kind: viewmodel.BannerError, Text: loadFailedMessage}
	}

	data.Profile = viewmodel.New(profileValues(data.User))
	data.Password = viewmodel.New(nil)

	activity, err := auditSvc.ForUser(ctx, sess.UserID, activityLimit)
	if err != nil {
		slog.Error("dashboard: failed to load activity", slog.String("user_id", sess.UserID), slog.Any("err", err))
	}
	data.Activity = activity
	return data, nil
}

func fieldErrors(errs []apiclient.FieldError) validation.Errors {
	out := make(validation.Errors, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}
