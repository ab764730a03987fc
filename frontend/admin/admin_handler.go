package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	sessioncontext "userhub/frontend/shared/context"
	"userhub/frontend/shared/handler"
	"userhub/frontend/shared/nav"
	"userhub/frontend/shared/validation"
	"userhub/frontend/shared/viewmodel"
	"userhub/infrastructure/apiclient"
	"userhub/infrastructure/audit"
	"userhub/infrastructure/rbac"
	"userhub/models"
)

// PageQueryHandler renders the admin console.
//
// Query parameters drive the transient UI: tab selects the tab, create=1 and edit=<id> open the role
// form, confirm=<kind>&id=<id> opens a delete confirmation, status and error show a banner.
func PageQueryHandler(api *apiclient.Client, r *rbac.Rbac, deleter *Deleter) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}
		state, err := loadState(req.Context(), api, r, deleter, sess)
		if err != nil {
			return err
		}

		q := req.URL.Query()
		state = Update(state, TabSelected{Tab: parseTab(q.Get("tab"))})
		if msg := q.Get("status"); msg != "" {
			state = Update(state, BannerShown{Banner: viewmodel.Banner{Kind: viewmodel.BannerSuccess, Text: msg}})
		}
		if msg := q.Get("error"); msg != "" {
			state = Update(state, BannerShown{Banner: viewmodel.Banner{Kind: viewmodel.BannerError, Text: msg}})
		}

		switch {
		case q.Get("create") == "1" && state.CanManageRoles:
			state = Update(state, RoleCreateOpened{})
		case q.Get("edit") != "" && state.CanManageRoles:
			if id, ok := parseID(q.Get("edit")); ok {
				state = Update(state, RoleEditOpened{ID: id})
			}
		case q.Get("confirm") != "":
			kind := Kind(q.Get("confirm"))
			id, ok := parseID(q.Get("id"))
			if ok && allowed(state, kind) {
				state = Update(state, DeleteRequested{Kind: kind, ID: id})
			}
		}
		return handler.Render(w, req, http.StatusOK, AdminPage(state))
	}
}

// DeleteUserCommandHandler deletes one user after the confirmation dialog was accepted.
func DeleteUserCommandHandler(api *apiclient.Client, r *rbac.Rbac, deleter *Deleter, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}
		id, ok := parseID(chi.URLParam(req, "id"))
		if !ok {
			redirectAdmin(w, req, TabUsers, "error", notFoundMessage)
			return nil
		}
		state, err := loadState(req.Context(), api, r, deleter, sess)
		if err != nil {
			return err
		}
		if !state.CanDeleteUsers {
			redirectAdmin(w, req, TabUsers, "error", forbiddenActionMessage)
			return nil
		}
		target, found := state.FindUser(id)
		switch {
		case !found && state.Banner.Visible():
			redirectAdmin(w, req, TabUsers, "error", state.Banner.Text)
			return nil
		case !found:
			redirectAdmin(w, req, TabUsers, "error", notFoundMessage)
			return nil
		case target.Protected():
			redirectAdmin(w, req, TabUsers, "error", protectedUserMessage)
			return nil
		}

		resp, err := deleter.Do(req.Context(), KindDeleteUser, id, func(ctx context.Context) (apiclient.Response[json.RawMessage], error) {
			return api.DeleteUser(ctx, sess.Token, id)
		})
		if msg, done, err := deleteOutcome(resp, err, userDeleteFallback); done {
			if err != nil {
				return err
			}
			redirectAdmin(w, req, TabUsers, "error", msg)
			return nil
		}

		auditSvc.Record(req.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionUserDelete,
			EntityType: "user",
			EntityID:   strconv.FormatInt(id, 10),
			Before:     target,
		})
		redirectAdmin(w, req, TabUsers, "status", fmt.Sprintf(userDeletedMessage, target.FullName()))
		return nil
	}
}

// DeleteRoleCommandHandler deletes one non-system role after confirmation.
func DeleteRoleCommandHandler(api *apiclient.Client, r *rbac.Rbac, deleter *Deleter, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}
		id, ok := parseID(chi.URLParam(req, "id"))
		if !ok {
			redirectAdmin(w, req, TabRoles, "error", notFoundMessage)
			return nil
		}
		state, err := loadState(req.Context(), api, r, deleter, sess)
		if err != nil {
			return err
		}
		if !state.CanManageRoles {
			redirectAdmin(w, req, TabRoles, "error", forbiddenActionMessage)
			return nil
		}
		target, found := state.FindRole(id)
		switch {
		case !found && state.Banner.Visible():
			redirectAdmin(w, req, TabRoles, "error", state.Banner.Text)
			return nil
		case !found:
			redirectAdmin(w, req, TabRoles, "error", notFoundMessage)
			return nil
		case target.System():
			redirectAdmin(w, req, TabRoles, "error", systemRoleMessage)
			return nil
		}

		resp, err := deleter.Do(req.Context(), KindDeleteRole, id, func(ctx context.Context) (apiclient.Response[json.RawMessage], error) {
			return api.DeleteRole(ctx, sess.Token, id)
		})
		if msg, done, err := deleteOutcome(resp, err, roleDeleteFallback); done {
			if err != nil {
				return err
			}
			redirectAdmin(w, req, TabRoles, "error", msg)
			return nil
		}

		auditSvc.Record(req.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionRoleDelete,
			EntityType: "role",
			EntityID:   strconv.FormatInt(id, 10),
			Before:     target,
		})
		redirectAdmin(w, req, TabRoles, "status", fmt.Sprintf(roleDeletedMessage, target.Name))
		return nil
	}
}

// CreateRoleCommandHandler validates and submits the create-role form.
func CreateRoleCommandHandler(api *apiclient.Client, r *rbac.Rbac, deleter *Deleter, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}
		if err := req.ParseForm(); err != nil {
			redirectAdmin(w, req, TabRoles, "error", roleCreateFallback)
			return nil
		}
		state, err := loadState(req.Context(), api, r, deleter, sess)
		if err != nil {
			return err
		}
		if !state.CanManageRoles {
			redirectAdmin(w, req, TabRoles, "error", forbiddenActionMessage)
			return nil
		}

		form := roleFormFromValues(req.PostForm)
		state = Update(state, RoleCreateOpened{})
		state = Update(state, RoleFormEvent{Event: viewmodel.EditStarted{Values: form.values()}})

		status, state, role, err := submitRole(state, form, roleCreateFallback, func() (apiclient.Response[models.Role], error) {
			return api.CreateRole(req.Context(), sess.Token, form.request())
		})
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return handler.Render(w, req, status, AdminPage(state))
		}

		auditSvc.Record(req.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionRoleCreate,
			EntityType: "role",
			EntityID:   strconv.FormatInt(role.RoleID, 10),
			After:      role,
		})
		redirectAdmin(w, req, TabRoles, "status", roleCreatedMessage)
		return nil
	}
}

// UpdateRoleCommandHandler validates and submits the edit-role form. System roles are refused.
func UpdateRoleCommandHandler(api *apiclient.Client, r *rbac.Rbac, deleter *Deleter, auditSvc *audit.Service) handler.Func {
	return func(w http.ResponseWriter, req *http.Request) error {
		sess, ok := sessioncontext.GetSessionFromContext(req.Context())
		if !ok {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
			return nil
		}
		id, ok := parseID(chi.URLParam(req, "id"))
		if !ok {
			redirectAdmin(w, req, TabRoles, "error", notFoundMessage)
			return nil
		}
		if err := req.ParseForm(); err != nil {
			redirectAdmin(w, req, TabRoles, "error", roleUpdateFallback)
			return nil
		}
		state, err := loadState(req.Context(), api, r, deleter, sess)
		if err != nil {
			return err
		}
		if !state.CanManageRoles {
			redirectAdmin(w, req, TabRoles, "error", forbiddenActionMessage)
			return nil
		}

		state = Update(state, RoleEditOpened{ID: id})
		if state.RoleMode != RoleFormEdit {
			msg := notFoundMessage
			if state.Banner.Visible() {
				msg = state.Banner.Text
			}
			redirectAdmin(w, req, TabRoles, "error", msg)
			return nil
		}
		before := state.EditingRole

		form := roleFormFromValues(req.PostForm)
		state = Update(state, RoleFormEvent{Event: viewmodel.EditStarted{Values: form.values()}})

		status, state, role, err := submitRole(state, form, roleUpdateFallback, func() (apiclient.Response[models.Role], error) {
			return api.UpdateRole(req.Context(), sess.Token, id, form.request())
		})
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return handler.Render(w, req, status, AdminPage(state))
		}

		auditSvc.Record(req.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionRoleUpdate,
			EntityType: "role",
			EntityID:   strconv.FormatInt(id, 10),
			Before:     before,
			After:      role,
		})
		redirectAdmin(w, req, TabRoles, "status", roleUpdatedMessage)
		return nil
	}
}

// submitRole runs validation and the backend call for a role form. It returns http.StatusOK on
// success, or the status to re-render state with.
func submitRole(state State, form RoleForm, fallback string, send func() (apiclient.Response[models.Role], error)) (int, State, models.Role, error) {
	if errs := validation.Check(form); !errs.Empty() {
		state = Update(state, RoleFormEvent{Event: viewmodel.ValidationFailed{Errors: errs}})
		return http.StatusUnprocessableEntity, state, models.Role{}, nil
	}
	state = Update(state, RoleFormEvent{Event: viewmodel.SubmitStarted{}})

	resp, err := send()
	switch {
	case errors.Is(err, apiclient.ErrUnauthenticated):
		return 0, state, models.Role{}, err
	case err != nil:
		state = Update(state, RoleFormEvent{Event: viewmodel.NetworkFailed{}})
		return http.StatusBadGateway, state, models.Role{}, nil
	case !resp.Success:
		if len(resp.Errors) > 0 {
			state = Update(state, RoleFormEvent{Event: viewmodel.ServerFieldErrors{Errors: fieldErrors(resp.Errors)}})
		} else {
			state = Update(state, RoleFormEvent{Event: viewmodel.SubmitFailed{Message: resp.Message, Fallback: fallback}})
		}
		return http.StatusUnprocessableEntity, state, models.Role{}, nil
	}
	return http.StatusOK, state, resp.Data, nil
}

// deleteOutcome classifies a delete result. done is false only for a successful delete; err is set
// only when the session has to end.
func deleteOutcome(resp apiclient.Response[json.RawMessage], err error, fallback string) (string, bool, error) {
	switch {
	case errors.Is(err, apiclient.ErrUnauthenticated):
		return "", true, err
	case err != nil:
		return viewmodel.NetworkErrorMessage, true, nil
	case !resp.Success:
		if resp.Message != "" {
			return resp.Message, true, nil
		}
		return fallback, true, nil
	}
	return "", false, nil
}

// loadState fetches users and roles concurrently. Either failing raises the load-failure banner and
// leaves that list empty. A 401 from either is returned.
func loadState(ctx context.Context, api *apiclient.Client, r *rbac.Rbac, deleter *Deleter, sess models.Session) (State, error) {
	var (
		users    apiclient.Response[[]models.User]
		roles    apiclient.Response[[]models.Role]
		usersErr error
		rolesErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		users, usersErr = api.Users(ctx, sess.Token)
		return usersErr
	})
	g.Go(func() error {
		roles, rolesErr = api.Roles(ctx, sess.Token)
		return rolesErr
	})
	_ = g.Wait()

	for _, err := range []error{usersErr, rolesErr} {
		if errors.Is(err, apiclient.ErrUnauthenticated) {
			return State{}, err
		}
	}

	userRoles := sess.Roles()
	navData := nav.BuildTopNavData("Admin Panel", sess, r)
	navData.BackHref = "/dashboard"
	state := State{
		Nav:            navData,
		Tab:            TabUsers,
		DeletingUsers:  map[int64]bool{},
		DeletingRoles:  map[int64]bool{},
		CanDeleteUsers: r.Can(userRoles, rbac.AdminUserDelete),
		CanManageRoles: r.Can(userRoles, rbac.AdminRoleCreate) && r.Can(userRoles, rbac.AdminRoleEdit) && r.Can(userRoles, rbac.AdminRoleDelete),
	}

	failed := false
	if usersErr == nil && users.Success {
		state.Users = users.Data
	} else {
		failed = true
	}
	if rolesErr == nil && roles.Success {
		state.Roles = roles.Data
	} else {
		failed = true
	}
	if failed {
		slog.Warn("admin: load failed", slog.Any("users_err", usersErr), slog.Any("roles_err", rolesErr))
		state = Update(state, BannerShown{Banner: viewmodel.Banner{Kind: viewmodel.BannerError, Text: loadFailedMessage}})
	}

	if deleter != nil {
		for _, id := range deleter.InFlight(KindDeleteUser) {
			state = Update(state, DeleteStarted{Kind: KindDeleteUser, ID: id})
		}
		for _, id := range deleter.InFlight(KindDeleteRole) {
			state = Update(state, DeleteStarted{Kind: KindDeleteRole, ID: id})
		}
	}
	return state, nil
}

func allowed(s State, kind Kind) bool {
	switch kind {
	case KindDeleteUser:
		return s.CanDeleteUsers
	case KindDeleteRole:
		return s.CanManageRoles
	}
	return false
}

func redirectAdmin(w http.ResponseWriter, r *http.Request, tab Tab, key, msg string) {
	q := url.Values{"tab": {string(tab)}, key: {msg}}
	http.Redirect(w, r, "/admin?"+q.Encode(), http.StatusSeeOther)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func fieldErrors(errs []apiclient.FieldError) validation.Errors {
	out := make(validation.Errors, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}
